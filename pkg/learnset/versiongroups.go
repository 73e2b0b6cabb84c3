package learnset

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// gamesByGeneration lists every version group released in a generation.
var gamesByGeneration = map[Generation][]string{
	GenerationI:    {"red-blue", "yellow"},
	GenerationII:   {"gold-silver", "crystal"},
	GenerationIII:  {"ruby-sapphire", "emerald", "firered-leafgreen", "colosseum", "xd"},
	GenerationIV:   {"diamond-pearl", "platinum", "heartgold-soulsilver"},
	GenerationV:    {"black-white", "black-2-white-2"},
	GenerationVI:   {"x-y", "omega-ruby-alpha-sapphire"},
	GenerationVII:  {"sun-moon", "ultra-sun-ultra-moon", "lets-go-pikachu-lets-go-eevee"},
	GenerationVIII: {"sword-shield", "brilliant-diamond-shining-pearl", "legends-arceus"},
	GenerationIX:   {"scarlet-violet"},
}

var versionGroupLabels = map[string]string{
	"black-white":                     "Black & White",
	"black-2-white-2":                 "Black 2 & White 2",
	"diamond-pearl":                   "Diamond & Pearl",
	"firered-leafgreen":               "FireRed & LeafGreen",
	"heartgold-soulsilver":            "HeartGold & SoulSilver",
	"lets-go-pikachu-lets-go-eevee":   "Let's Go Pikachu/Eevee",
	"omega-ruby-alpha-sapphire":       "Omega Ruby & Alpha Sapphire",
	"red-blue":                        "Red & Blue",
	"sun-moon":                        "Sun & Moon",
	"ultra-sun-ultra-moon":            "Ultra Sun & Ultra Moon",
	"x-y":                             "X & Y",
	"sword-shield":                    "Sword & Shield",
	"brilliant-diamond-shining-pearl": "Brilliant Diamond & Shining Pearl",
	"legends-arceus":                  "Legends: Arceus",
	"scarlet-violet":                  "Scarlet & Violet",
}

// segmentLabels overrides start-casing of single slug segments.
var segmentLabels = map[string]string{
	"xd":   "XD",
	"tm":   "TM",
	"go":   "Go",
	"lets": "Let's",
}

// versionGroupGeneration is the reverse index of gamesByGeneration.
var versionGroupGeneration map[string]Generation

func init() {
	versionGroupGeneration = make(map[string]Generation)
	for g, games := range gamesByGeneration {
		for _, game := range games {
			versionGroupGeneration[game] = g
		}
	}
}

// AllGamesForGeneration returns the version groups of a generation, or nil
// for an unknown generation.
func AllGamesForGeneration(generation string) []string {
	games := gamesByGeneration[ParseGeneration(generation)]
	if games == nil {
		return nil
	}
	return append([]string(nil), games...)
}

// GenerationForVersionGroup returns the canonical generation slug of a
// version group.
func GenerationForVersionGroup(versionGroup string) (string, bool) {
	g, ok := versionGroupGeneration[versionGroup]
	if !ok {
		return "", false
	}
	return g.String(), true
}

// IsAllGamesInGeneration reports whether versionGroups is exactly the set of
// games released in generation.
func IsAllGamesInGeneration(versionGroups []string, generation string) bool {
	all := gamesByGeneration[ParseGeneration(generation)]
	if len(versionGroups) == 0 || len(all) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(versionGroups))
	for _, vg := range versionGroups {
		have[vg] = struct{}{}
	}
	if len(have) != len(all) {
		return false
	}
	for _, game := range all {
		if _, ok := have[game]; !ok {
			return false
		}
	}
	return true
}

// FormatVersionGroupLabel returns the display label of a version group slug.
func FormatVersionGroupLabel(versionGroup string) string {
	if label, ok := versionGroupLabels[versionGroup]; ok {
		return label
	}
	caser := cases.Title(language.English, cases.NoLower)
	segments := strings.Split(versionGroup, "-")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if label, ok := segmentLabels[strings.ToLower(seg)]; ok {
			segments[i] = label
			continue
		}
		segments[i] = caser.String(seg)
	}
	return strings.Join(segments, " ")
}

// FormatVersionGroups summarises version groups for one generation: the
// full set collapses to "All Gen X games", up to three are listed, and
// longer lists are elided with a "+N more" count.
func FormatVersionGroups(versionGroups []string, generation string) string {
	if len(versionGroups) == 0 {
		return "All versions"
	}
	if IsAllGamesInGeneration(versionGroups, generation) {
		return fmt.Sprintf("All %s games", GenerationLabel(generation))
	}

	shown := versionGroups
	if len(shown) > 3 {
		shown = shown[:3]
	}
	labels := make([]string, len(shown))
	for i, vg := range shown {
		labels[i] = FormatVersionGroupLabel(vg)
	}
	summary := strings.Join(labels, ", ")
	if rest := len(versionGroups) - len(shown); rest > 0 {
		summary += fmt.Sprintf(" +%d more", rest)
	}
	return summary
}
