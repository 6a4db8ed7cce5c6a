package discovery

import "strings"

// defaultDateOffsetDays is the future offset used when a platform's date
// field is absent or unparseable.
const defaultDateOffsetDays = 7

// cityAliases maps canonical city names to the substrings that identify
// them in platform address fields, Japanese script included.
var cityAliases = map[string][]string{
	"Osaka": {"大阪", "ōsaka", "osaka"},
	"Kobe":  {"神戸", "kōbe", "kobe"},
	"Kyoto": {"京都", "kyōto", "kyoto"},
}

// canonicalCity maps an address to a canonical city name. When the address
// matches no known alias the requested city is kept.
func canonicalCity(requested, address string) string {
	lower := strings.ToLower(address)
	for city, aliases := range cityAliases {
		for _, alias := range aliases {
			if strings.Contains(lower, alias) {
				return city
			}
		}
	}
	return requested
}

// coercePrice normalizes a platform fee field to either "Free" or a
// currency-prefixed amount.
func coercePrice(fee string) string {
	fee = strings.TrimSpace(fee)
	if fee == "" || fee == "0" {
		return "Free"
	}
	if strings.EqualFold(fee, "free") || strings.Contains(fee, "無料") {
		return "Free"
	}
	if strings.HasPrefix(fee, "¥") {
		return fee
	}
	return "¥" + fee
}

// truncate bounds s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
