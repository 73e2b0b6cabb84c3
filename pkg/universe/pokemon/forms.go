package pokemon

import (
	"sort"
	"strings"
)

// alternateFormMinID is the first id the source data assigns to alternate forms.
const alternateFormMinID = 10000

// formSuffixes mark alternate forms. Longer suffixes that share an ending
// with a shorter one are listed first so BaseName strips the longest match.
var formSuffixes = []string{
	"_mega_x",
	"_mega_y",
	"_mega",
	"_gmax",
	"_therian",
	"_incarnate",
	"_bloodmoon",
	"_female",
	"_male",
	"_alola",
	"_galar",
	"_hisui",
	"_paldea",
	"_origin",
	"_eternal",
	"_zen",
	"_ash",
	"_100",
	"_10",
	"_25",
	"_50",
	"_complete",
	"_small",
	"_large",
	"_super",
	"_rainy",
	"_sunny",
	"_snowy",
	"_attack",
	"_defense",
	"_speed",
	"_plant",
	"_sandy",
	"_trash",
	"_overcast",
	"_sunshine",
	"_dusk",
	"_dawn",
	"_midnight",
	"_low_key",
	"_amped",
	"_single_strike",
	"_rapid_strike",
	"_ice",
	"_shadow",
	"_purified",
	"_gulping",
	"_gorging",
	"_noice",
	"_hangry",
	"_crowned",
	"_eternamax",
	"_dada",
}

func normalizeFormSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", "_")
}

// IsAlternateForm reports whether p is an alternate form, either by id range
// or by a known form suffix on its slug.
func IsAlternateForm(p Pokemon) bool {
	if p.ID >= alternateFormMinID {
		return true
	}
	slug := normalizeFormSlug(p.Slug)
	for _, suffix := range formSuffixes {
		if strings.HasSuffix(slug, suffix) {
			return true
		}
	}
	return false
}

func IsBaseForm(p Pokemon) bool {
	return !IsAlternateForm(p)
}

// BaseName strips a form suffix from slug: "charizard-mega-x" becomes
// "charizard". Hyphens are normalized to underscores.
func BaseName(slug string) string {
	slug = normalizeFormSlug(slug)
	for _, suffix := range formSuffixes {
		if strings.HasSuffix(slug, suffix) {
			return strings.TrimSuffix(slug, suffix)
		}
	}
	return slug
}

// GroupByBaseName groups creatures by BaseName, each group sorted by id.
func GroupByBaseName(creatures []Pokemon) map[string][]Pokemon {
	grouped := make(map[string][]Pokemon)
	for _, p := range creatures {
		base := BaseName(p.Slug)
		grouped[base] = append(grouped[base], p)
	}
	for _, forms := range grouped {
		sort.SliceStable(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	}
	return grouped
}

// BaseForm returns the first non-alternate creature with the given base
// name, falling back to the lowest id among its forms.
func BaseForm(creatures []Pokemon, baseName string) (Pokemon, bool) {
	var forms []Pokemon
	for _, p := range creatures {
		if BaseName(p.Slug) == baseName {
			forms = append(forms, p)
		}
	}
	if len(forms) == 0 {
		return Pokemon{}, false
	}
	for _, p := range forms {
		if !IsAlternateForm(p) {
			return p, true
		}
	}
	lowest := forms[0]
	for _, p := range forms[1:] {
		if p.ID < lowest.ID {
			lowest = p
		}
	}
	return lowest, true
}

// AlternateForms lists the alternate forms sharing baseName, excluding
// currentSlug.
func AlternateForms(creatures []Pokemon, baseName, currentSlug string) []Pokemon {
	forms := []Pokemon{}
	for _, p := range creatures {
		if p.Slug != currentSlug && BaseName(p.Slug) == baseName && IsAlternateForm(p) {
			forms = append(forms, p)
		}
	}
	return forms
}
