package backend

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReturnOverride pins a hand-chosen return type for a well-known method
type ReturnOverride int

const (
	NoOverride ReturnOverride = iota
	TimestampOverride
	OrderBookOverride
)

type overrideRule struct {
	name   string
	prefix bool
	kind   ReturnOverride
}

// returnOverrides is the complete allow-list of name-routed return types.
// Rules are consulted in order; the first match wins.
var returnOverrides = []overrideRule{
	{name: "fetchTime", kind: TimestampOverride},
	{name: "watchOrderBook", prefix: true, kind: OrderBookOverride},
}

// LookupReturnOverride returns the override pinned to method, if any
func LookupReturnOverride(method string) ReturnOverride {
	for _, rule := range returnOverrides {
		if method == rule.name || (rule.prefix && strings.HasPrefix(method, rule.name)) {
			return rule.kind
		}
	}
	return NoOverride
}

// DomainAliases substitutes domain type names whose target spelling differs
var DomainAliases = map[string]string{
	"Market":   "MarketInterface",
	"Currency": "CurrencyInterface",
}

// DomainName returns the target spelling of a domain alias
func DomainName(name string) string {
	if alias, ok := DomainAliases[name]; ok {
		return alias
	}
	return name
}

// Rename substitutes name when it collides with a target keyword
func Rename(name string, reserved map[string]string) string {
	if renamed, ok := reserved[name]; ok {
		return renamed
	}
	return name
}

// Capitalize upper-cases the first rune of name and keeps the rest intact
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// TranslateLiteral converts a source default literal into the spelling
// shared by every target: numbers and booleans unchanged, strings double
// quoted. undefined, object and array literals are not translatable.
func TranslateLiteral(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return "", false
	case s == "true" || s == "false":
		return s, true
	case len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0]:
		return strconv.Quote(s[1 : len(s)-1]), true
	}
	if !isNumericStart(s) {
		return "", false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s, true
	}
	return "", false
}

// isNumericStart rejects ParseFloat's Inf/NaN spellings
func isNumericStart(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	return digits != "" && (unicode.IsDigit(rune(digits[0])) || digits[0] == '.')
}

// JoinArgs renders an argument or parameter list
func JoinArgs(args []string) string {
	return strings.Join(args, ", ")
}
