package domain

import "strings"

// canonicalAllergens maps lowercase provider tags to display names. Tags not
// listed here pass through title-cased.
var canonicalAllergens = map[string]string{
	"peanut":          "Peanut",
	"peanuts":         "Peanut",
	"milk":            "Milk",
	"gluten":          "Gluten",
	"soy":             "Soy",
	"soybean":         "Soy",
	"soybeans":        "Soy",
	"egg":             "Egg",
	"eggs":            "Egg",
	"fish":            "Fish",
	"nuts":            "Tree Nuts",
	"tree-nuts":       "Tree Nuts",
	"sesame":          "Sesame",
	"sesame-seeds":    "Sesame",
	"mustard":         "Mustard",
	"celery":          "Celery",
	"lupin":           "Lupin",
	"crustaceans":     "Crustaceans",
	"molluscs":        "Molluscs",
	"sulphur-dioxide": "Sulphites",
	"sulphites":       "Sulphites",
}

// NormalizeAllergens flattens raw allergen tags into canonical display names.
// Input tags may be colon-prefixed taxonomy codes ("en:peanuts"), free-text
// comma lists ("milk, soy"), or hierarchy entries; output is deduplicated
// case-insensitively in first-seen order.
func NormalizeAllergens(raw []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, tag := range raw {
		for _, part := range strings.Split(tag, ",") {
			name := canonicalAllergen(part)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
		}
	}
	return out
}

func canonicalAllergen(tag string) string {
	t := strings.TrimSpace(strings.ToLower(tag))
	// Strip taxonomy prefixes like "en:" (keep the last segment).
	if i := strings.LastIndex(t, ":"); i >= 0 {
		t = t[i+1:]
	}
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	if name, ok := canonicalAllergens[t]; ok {
		return name
	}
	if name, ok := canonicalAllergens[strings.ReplaceAll(t, " ", "-")]; ok {
		return name
	}
	return titleCase(t)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// MatchAllergens reports which of the given allergen names appear in the
// ingredients text, using case-insensitive substring containment.
func MatchAllergens(ingredients string, allergens []string) []string {
	if strings.TrimSpace(ingredients) == "" {
		return nil
	}
	haystack := strings.ToLower(ingredients)
	var hits []string
	for _, a := range allergens {
		if strings.Contains(haystack, strings.ToLower(a)) {
			hits = append(hits, a)
		}
	}
	return hits
}
