package utils

import "strings"

// NormalizeTicker trims and uppercases a ticker symbol.
func NormalizeTicker(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SymbolVariants returns the normalized symbol followed by its dash forms:
// "BRK.B" → [BRK.B BRK-B], "BF/A" → [BF/A BF-A]. Order is stable and
// entries are unique. A blank symbol yields nil.
func SymbolVariants(symbol string) []string {
	base := NormalizeTicker(symbol)
	if base == "" {
		return nil
	}
	variants := []string{base}
	if strings.Contains(base, ".") {
		variants = AppendUnique(variants, strings.ReplaceAll(base, ".", "-"))
	}
	if strings.Contains(base, "/") {
		variants = AppendUnique(variants, strings.ReplaceAll(base, "/", "-"))
	}
	return variants
}

// AppendUnique appends each non-empty value not already present in list.
func AppendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if v == "" || contains(list, v) {
			continue
		}
		list = append(list, v)
	}
	return list
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
