package core

import "strings"

// CustomTagPrefix marks user-defined tags so they stay distinguishable from
// the predefined set in saved documents.
const CustomTagPrefix = "other:"

var standardTags = []string{
	"Business", "Cash", "Childcare", "Eating Out & Takeaway", "Education",
	"Entertainment", "Fees & Interest", "Gifts & Donations", "Groceries",
	"Health & Medical", "Home", "Home Loan", "Insurance", "Investments",
	"Personal Care", "Pets", "Professional Services", "Shopping",
	"Sport & Fitness", "Subscriptions", "Tax", "Travel & Holidays",
	"Utilities", "Vehicle & Transport",
}

// StandardTags returns the predefined tag list, already sorted.
func StandardTags() []string {
	out := make([]string, len(standardTags))
	copy(out, standardTags)
	return out
}

// CustomTag formats a user-defined tag name with the custom prefix.
// Returns an empty string for blank input.
func CustomTag(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return CustomTagPrefix + name
}

// IsCustomTag reports whether a tag is user-defined.
func IsCustomTag(tag string) bool {
	return strings.HasPrefix(tag, CustomTagPrefix)
}

// NormalizeTags trims whitespace and removes blanks and duplicates,
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
