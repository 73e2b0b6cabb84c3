// Package reconcile maps universe metadata documents from either the
// external export shape or the canonical shape onto canonical records.
package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Shape identifies which layout a metadata document uses.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeExport is {universe: {key, displayName, version}, exportedAt, characters}.
	ShapeExport
	// ShapeCanonical is {universeId, universeName, version, exportedAt, characters}.
	ShapeCanonical
)

func (s Shape) String() string {
	switch s {
	case ShapeExport:
		return "export"
	case ShapeCanonical:
		return "canonical"
	default:
		return "unknown"
	}
}

// imagePrefix is stripped from character image paths; canonical paths are
// relative to the universe's images directory.
const imagePrefix = "images/"

type Images struct {
	Portrait string `json:"portrait,omitempty"`
	Full     string `json:"full,omitempty"`
}

// Character is a canonical character record.
type Character struct {
	ID         string         `json:"id"`
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	UniverseID string         `json:"universeId"`
	Tags       []string       `json:"tags"`
	Metadata   map[string]any `json:"metadata"`
	Images     Images         `json:"images"`
}

// CanonicalRecord is one universe's canonical metadata, written as data.json.
type CanonicalRecord struct {
	UniverseID   string      `json:"universeId"`
	UniverseName string      `json:"universeName"`
	Version      string      `json:"version,omitempty"`
	ExportedAt   string      `json:"exportedAt,omitempty"`
	Characters   []Character `json:"characters"`
}

type ExportUniverse struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Version     *int   `json:"version,omitempty"`
}

type ExportImages struct {
	Portrait string `json:"portrait"`
	Full     string `json:"full"`
}

type ExportCharacter struct {
	ID         string         `json:"id"`
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	UniverseID string         `json:"universeId"`
	Tags       []string       `json:"tags"`
	Metadata   map[string]any `json:"metadata"`
	Images     ExportImages   `json:"images"`
}

// ExportShape is the layout consumed by the game client.
type ExportShape struct {
	Universe       ExportUniverse    `json:"universe"`
	ExportedAt     string            `json:"exportedAt"`
	CharacterCount int               `json:"characterCount"`
	Characters     []ExportCharacter `json:"characters"`
}

// Detect reports the shape of raw. The export shape is checked first: a
// document with a universe object carrying key or displayName next to a
// characters array is an export even if it also has a universeId.
func Detect(raw []byte) Shape {
	if !gjson.ValidBytes(raw) {
		return ShapeUnknown
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() || !doc.Get("characters").IsArray() {
		return ShapeUnknown
	}
	u := doc.Get("universe")
	if u.IsObject() && (u.Get("key").Exists() || u.Get("displayName").Exists()) {
		return ShapeExport
	}
	if id := doc.Get("universeId"); id.Type == gjson.String && id.Str != "" {
		return ShapeCanonical
	}
	return ShapeUnknown
}

// Reconcile maps raw onto a validated canonical record. fallbackID names
// the universe when an export document carries no key or display name.
func Reconcile(raw []byte, fallbackID string) (*CanonicalRecord, error) {
	var rec *CanonicalRecord
	var err error
	switch Detect(raw) {
	case ShapeExport:
		rec, err = fromExport(raw, fallbackID)
	case ShapeCanonical:
		rec, err = fromCanonical(raw)
	default:
		return nil, &SchemaMismatchError{Keys: topLevelKeys(raw)}
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(rec); err != nil {
		return nil, err
	}
	NormalizeImages(rec)
	return rec, nil
}

func fromExport(raw []byte, fallbackID string) (*CanonicalRecord, error) {
	doc := gjson.ParseBytes(raw)
	rec := &CanonicalRecord{
		UniverseID:   firstNonEmpty(doc.Get("universe.key").String(), fallbackID),
		UniverseName: firstNonEmpty(doc.Get("universe.displayName").String(), fallbackID),
		ExportedAt:   doc.Get("exportedAt").String(),
	}
	if v := doc.Get("universe.version"); v.Exists() && v.Type != gjson.Null {
		rec.Version = v.String()
	}
	chars, err := decodeCharacters(doc.Get("characters").Raw)
	if err != nil {
		return nil, err
	}
	rec.Characters = chars
	return rec, nil
}

func fromCanonical(raw []byte) (*CanonicalRecord, error) {
	var rec CanonicalRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return &rec, nil
}

func decodeCharacters(raw string) ([]Character, error) {
	var chars []Character
	if err := json.Unmarshal([]byte(raw), &chars); err != nil {
		return nil, &ValidationError{Field: "characters", Reason: err.Error()}
	}
	return chars, nil
}

// Validate checks rec against the canonical contract and fills defaults:
// nil tags become empty, nil metadata becomes an empty object. Every
// violation is reported in one joined error.
func Validate(rec *CanonicalRecord) error {
	var errs []error
	if rec.UniverseID == "" {
		errs = append(errs, &ValidationError{Field: "universeId", Reason: "required"})
	}
	if rec.UniverseName == "" {
		errs = append(errs, &ValidationError{Field: "universeName", Reason: "required"})
	}
	if rec.Characters == nil {
		rec.Characters = []Character{}
	}
	for i := range rec.Characters {
		c := &rec.Characters[i]
		for _, f := range []struct{ name, value string }{
			{"id", c.ID},
			{"key", c.Key},
			{"name", c.Name},
			{"universeId", c.UniverseID},
		} {
			if f.value == "" {
				errs = append(errs, &ValidationError{Field: fmt.Sprintf("characters[%d].%s", i, f.name), Reason: "required"})
			}
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		if c.Metadata == nil {
			c.Metadata = map[string]any{}
		}
	}
	return errors.Join(errs...)
}

// NormalizeImagePath strips leading "images/" segments from p, so applying
// it twice gives the same result as applying it once.
func NormalizeImagePath(p string) string {
	for strings.HasPrefix(p, imagePrefix) {
		p = strings.TrimPrefix(p, imagePrefix)
	}
	return p
}

// NormalizeImages rewrites every character's image paths relative to the
// universe's images directory.
func NormalizeImages(rec *CanonicalRecord) {
	for i := range rec.Characters {
		img := &rec.Characters[i].Images
		img.Portrait = NormalizeImagePath(img.Portrait)
		img.Full = NormalizeImagePath(img.Full)
	}
}

// ToExport converts rec to the export shape. Image paths are re-rooted
// under "images/" and the version defaults to 1 when rec has no integer
// version.
func ToExport(rec *CanonicalRecord, displayName string, exportedAt time.Time) ExportShape {
	version := 1
	if v, err := strconv.Atoi(rec.Version); err == nil {
		version = v
	}
	chars := make([]ExportCharacter, 0, len(rec.Characters))
	for _, c := range rec.Characters {
		tags := c.Tags
		if tags == nil {
			tags = []string{}
		}
		metadata := c.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		chars = append(chars, ExportCharacter{
			ID:         c.ID,
			Key:        firstNonEmpty(c.Key, c.ID),
			Name:       c.Name,
			UniverseID: rec.UniverseID,
			Tags:       tags,
			Metadata:   metadata,
			Images: ExportImages{
				Portrait: exportImagePath(c.Images.Portrait),
				Full:     exportImagePath(c.Images.Full),
			},
		})
	}
	return ExportShape{
		Universe: ExportUniverse{
			Key:         rec.UniverseID,
			DisplayName: firstNonEmpty(displayName, rec.UniverseName, rec.UniverseID),
			Version:     &version,
		},
		ExportedAt:     exportedAt.UTC().Format(time.RFC3339),
		CharacterCount: len(chars),
		Characters:     chars,
	}
}

func exportImagePath(p string) string {
	if p == "" || strings.HasPrefix(p, imagePrefix) {
		return p
	}
	return imagePrefix + p
}

func topLevelKeys(raw []byte) []string {
	if !gjson.ValidBytes(raw) {
		return nil
	}
	var keys []string
	gjson.ParseBytes(raw).ForEach(func(k, _ gjson.Result) bool {
		if k.Type == gjson.String {
			keys = append(keys, k.Str)
		}
		return true
	})
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
