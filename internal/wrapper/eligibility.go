package wrapper

import "strings"

// allowedPrefixes are the method families that get typed wrappers
var allowedPrefixes = []string{
	"fetch",
	"create",
	"edit",
	"cancel",
	"transfer",
	"withdraw",
	"watch",
	"setP",
	"setM",
	"setL",
}

// deniedMethods match an allowed prefix but are internal helpers or have no
// stable return shape.
var deniedMethods = map[string]bool{
	"fetchCurrencies":                 true,
	"fetchCurrenciesWs":               true,
	"fetchMarketsWs":                  true,
	"fetchPaginatedCallDynamic":       true,
	"fetchPaginatedCallDeterministic": true,
	"fetchPaginatedCallCursor":        true,
	"fetchPaginatedCallIncremental":   true,
	"fetchWebEndpoint":                true,
	"setProperty":                     true,
	"setMarkets":                      true,
	"setMarketsFromExchange":          true,
	"watchMultiple":                   true,
	"watchPublic":                     true,
	"watchPrivate":                    true,
}

// streamingMarkers flag internal watch* plumbing
var streamingMarkers = []string{"Snapshot", "Subscription", "Cache"}

// Eligible reports whether method gets a typed wrapper
func Eligible(method string) bool {
	if deniedMethods[method] || !hasAllowedPrefix(method) {
		return false
	}
	if strings.HasPrefix(method, "watch") {
		for _, marker := range streamingMarkers {
			if strings.Contains(method, marker) {
				return false
			}
		}
	}
	return true
}

func hasAllowedPrefix(method string) bool {
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(method, prefix) {
			return true
		}
	}
	return false
}
