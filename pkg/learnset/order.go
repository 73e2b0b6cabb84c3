package learnset

import (
	"strings"
)

// Generation is a totally ordered release era. The zero value is an
// unrecognised generation and sorts after every known one.
type Generation int

const (
	GenerationUnknown Generation = iota
	GenerationI
	GenerationII
	GenerationIII
	GenerationIV
	GenerationV
	GenerationVI
	GenerationVII
	GenerationVIII
	GenerationIX
)

var generationSlugs = [...]string{
	GenerationI:    "generation-i",
	GenerationII:   "generation-ii",
	GenerationIII:  "generation-iii",
	GenerationIV:   "generation-iv",
	GenerationV:    "generation-v",
	GenerationVI:   "generation-vi",
	GenerationVII:  "generation-vii",
	GenerationVIII: "generation-viii",
	GenerationIX:   "generation-ix",
}

var generationNumerals = [...]string{
	GenerationI:    "I",
	GenerationII:   "II",
	GenerationIII:  "III",
	GenerationIV:   "IV",
	GenerationV:    "V",
	GenerationVI:   "VI",
	GenerationVII:  "VII",
	GenerationVIII: "VIII",
	GenerationIX:   "IX",
}

// generationAliases maps the spellings seen in source dumps to a generation.
var generationAliases map[string]Generation

// Generations returns every known generation in canonical order.
func Generations() []Generation {
	out := make([]Generation, 0, len(generationSlugs)-1)
	for g := GenerationI; g <= GenerationIX; g++ {
		out = append(out, g)
	}
	return out
}

// ParseGeneration recognises "generation-iv", "gen-iv", "iv" and "4".
func ParseGeneration(s string) Generation {
	return generationAliases[strings.ToLower(strings.TrimSpace(s))]
}

// String returns the canonical slug, or "" for GenerationUnknown.
func (g Generation) String() string {
	if g <= GenerationUnknown || g > GenerationIX {
		return ""
	}
	return generationSlugs[g]
}

// Label returns the short display label, e.g. "Gen IV".
func (g Generation) Label() string {
	if g <= GenerationUnknown || g > GenerationIX {
		return ""
	}
	return "Gen " + generationNumerals[g]
}

func (g Generation) weight() int {
	if g <= GenerationUnknown || g > GenerationIX {
		return int(GenerationIX) + 1
	}
	return int(g)
}

// CanonicalGeneration returns the canonical slug for a known generation and
// the trimmed input otherwise.
func CanonicalGeneration(s string) string {
	if g := ParseGeneration(s); g != GenerationUnknown {
		return g.String()
	}
	return strings.TrimSpace(s)
}

// GenerationLabel labels a generation string, falling back to the raw value.
func GenerationLabel(s string) string {
	if g := ParseGeneration(s); g != GenerationUnknown {
		return g.Label()
	}
	return s
}

// CompareGenerations orders generation strings canonically. Unknown
// generations sort last, lexically among themselves.
func CompareGenerations(a, b string) int {
	wa, wb := ParseGeneration(a).weight(), ParseGeneration(b).weight()
	if wa != wb {
		return wa - wb
	}
	return strings.Compare(a, b)
}

// Method is a totally ordered move acquisition method. The zero value is an
// unrecognised method and sorts after every known one.
type Method int

const (
	MethodUnknown Method = iota
	MethodLevelUp
	MethodMachine
	MethodTutor
	MethodEgg
	MethodLightBallEgg
	MethodFormChange
	MethodSpecial
	MethodTransfer
)

// methodUnification groups raw method spellings under one method. Canonical
// slugs come first in each list.
var methodUnification = map[Method][]string{
	MethodLevelUp:      {"level-up", "level_up", "levelup", "level"},
	MethodMachine:      {"machine", "tm", "hm", "tr", "technical-machine"},
	MethodTutor:        {"tutor", "move-tutor", "move_tutor"},
	MethodEgg:          {"egg", "egg-move", "egg_move", "breeding"},
	MethodLightBallEgg: {"light-ball-egg", "light_ball_egg"},
	MethodFormChange:   {"form-change", "form_change"},
	MethodSpecial:      {"special", "event"},
	MethodTransfer:     {"transfer"},
}

// methodMap is the reverse index of methodUnification.
var methodMap map[string]Method

func init() {
	methodMap = make(map[string]Method)
	for method, raws := range methodUnification {
		for _, raw := range raws {
			methodMap[raw] = method
		}
	}

	generationAliases = make(map[string]Generation)
	for g := GenerationI; g <= GenerationIX; g++ {
		numeral := strings.ToLower(generationNumerals[g])
		generationAliases[generationSlugs[g]] = g
		generationAliases["gen-"+numeral] = g
		generationAliases[numeral] = g
		generationAliases[string(rune('0'+int(g)))] = g
	}
}

// ParseMethod recognises canonical method slugs and their common aliases.
func ParseMethod(s string) Method {
	return methodMap[strings.ToLower(strings.TrimSpace(s))]
}

// String returns the canonical slug, or "" for MethodUnknown.
func (m Method) String() string {
	if raws, ok := methodUnification[m]; ok {
		return raws[0]
	}
	return ""
}

func (m Method) weight() int {
	if m <= MethodUnknown || m > MethodTransfer {
		return int(MethodTransfer) + 1
	}
	return int(m)
}

// NormalizeMethod returns the canonical slug for a known method. Unknown
// methods are kept, lowercased and trimmed.
func NormalizeMethod(s string) string {
	if m := ParseMethod(s); m != MethodUnknown {
		return m.String()
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// CompareMethods orders method strings by priority. Unknown methods sort
// last, lexically among themselves.
func CompareMethods(a, b string) int {
	wa, wb := ParseMethod(a).weight(), ParseMethod(b).weight()
	if wa != wb {
		return wa - wb
	}
	return strings.Compare(a, b)
}
