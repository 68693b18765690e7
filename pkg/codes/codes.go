// Package codes parses and compares structured glassware item codes of the
// form PPPP/S or PPPP/S<tail> ("0330/07", "425/0", "0425/00BX"). Clients type
// these with uneven zero padding, so equality runs over a canonical form
// instead of the raw string.
package codes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	codeRe = regexp.MustCompile(`(\d{3,4})/(\d{1,3})([A-Za-z][A-Za-z0-9]*)?`)

	// rdRe lifts the code out of catalog-style "RD 0330/07" mentions.
	rdRe = regexp.MustCompile(`(?i)\bRD\s+(\d{3,4}/\d{1,3}[A-Za-z]?)`)
)

// Code is a parsed glass item code.
type Code struct {
	Prefix string // product family, zero-padded to 4 digits
	Suffix int    // size variant, numeric value ("0" and "00" are the same size)
	Tail   string // packaging tail, upper-cased
}

// String renders the canonical form used as a map key.
func (c Code) String() string {
	return fmt.Sprintf("%s/%d%s", c.Prefix, c.Suffix, c.Tail)
}

// Parse parses a code token. The whole token must be a code; use Extract to
// pull a code out of a longer line.
func Parse(token string) (Code, bool) {
	m := codeRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil || m[0] != strings.TrimSpace(token) {
		return Code{}, false
	}
	return fromMatch(m), true
}

// Extract returns the first code token found in a line, raw, or "" when the
// line carries none. "RD"-prefixed mentions win over bare tokens.
func Extract(line string) string {
	if m := rdRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := codeRe.FindString(line); m != "" {
		return m
	}
	return ""
}

// Normalize maps a raw code to its canonical form, or "" for a non-code.
func Normalize(token string) string {
	c, ok := Parse(token)
	if !ok {
		return ""
	}
	return c.String()
}

// Equal reports whether two raw codes name the same item: prefixes equal after
// zero padding, suffixes equal as numbers, tails equal ignoring case.
func Equal(a, b string) bool {
	ca, okA := Parse(a)
	cb, okB := Parse(b)
	if !okA || !okB {
		return false
	}
	return ca == cb
}

func fromMatch(m []string) Code {
	prefix := m[1]
	if len(prefix) == 3 {
		prefix = "0" + prefix
	}
	suffix, _ := strconv.Atoi(m[2])
	return Code{
		Prefix: prefix,
		Suffix: suffix,
		Tail:   strings.ToUpper(m[3]),
	}
}
