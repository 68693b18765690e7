// Package normalizers provides the text normalization forms used throughout the
// order resolver. Matching never compares raw text: every comparison goes through
// the loose form (lower-cased, punctuation stripped, single spaces) or the tight
// form (loose with whitespace removed), so spacing and punctuation variance can
// never block a match.
package normalizers

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("loose", Loose)
	Register("tight", Tight)
	Register("fold", Fold)
	Register("client_name", ClientName)
	Register("search_key", SearchKey)
	Register("strip_qty_unit", StripQtyUnit)
	Register("strip_tail_phrases", StripTailPhrases)
	Register("normalize_quantity", NormalizeQuantity)
	Register("strip_boilerplate", StripBoilerplate)
	Register("digits_only", DigitsOnly)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Loose lower-cases, replaces punctuation with spaces and collapses runs of
// whitespace to single spaces. Idempotent: Loose(Loose(x)) == Loose(x).
func Loose(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSpace = false
		default:
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Tight is the loose form with all whitespace removed. Used for alias equality
// and substring checks.
func Tight(s string) string {
	return strings.ReplaceAll(Loose(s), " ", "")
}

// Fold decomposes to NFD before tightening, so visually identical Hangul with
// different composition forms compare equal.
func Fold(s string) string {
	return Tight(norm.NFD.String(s))
}

// ClientName tight-normalizes a client name and drops corporate markers
// (주식회사, (주), 주.) so "(주)배산임수" and "배산임수" compare equal.
func ClientName(s string) string {
	for _, marker := range corporateMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	return Tight(s)
}

// SearchKey reduces a raw order line to the learning key: quantities, units,
// standalone numbers, quotes and punctuation removed, then lower-cased with all
// whitespace stripped.
func SearchKey(raw string) string {
	s := strings.NewReplacer("\r", "", "\t", " ", `"`, "", "'", "", "`", "").Replace(raw)
	s = qtyUnitRe.ReplaceAllString(s, " ")
	s = bareNumberRe.ReplaceAllString(s, " ")
	return Tight(s)
}

// StripQtyUnit removes quantity+unit tokens and a trailing bare integer from a
// line, leaving the clean name used for matching.
func StripQtyUnit(raw string) string {
	s := qtyUnitRe.ReplaceAllString(raw, " ")
	s = trailingNumberRe.ReplaceAllString(s, "")
	return collapseSpaces(s)
}

// StripBoilerplate removes greeting, request and thanks phrases. The phrase
// set is data (see rules.go), not logic. Newlines survive: they delimit order
// lines downstream.
func StripBoilerplate(s string) string {
	for _, re := range boilerplateRes {
		s = re.ReplaceAllString(s, " ")
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = collapseSpaces(line)
	}
	return strings.Join(lines, "\n")
}

// StripTailPhrases removes order-request tails ("요청드립니다" and friends) that
// otherwise glue themselves onto the trailing quantity token.
func StripTailPhrases(s string) string {
	s = collapseSpaces(s)
	for _, re := range tailPhraseRes {
		s = re.ReplaceAllString(s, " ")
	}
	return collapseSpaces(s)
}

// NormalizeQuantity rewrites Korean numeral+unit pairs ("두 병" → "2병") and
// canonicalizes unit spellings.
func NormalizeQuantity(s string) string {
	for _, rule := range koreanNumeralRes {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	for from, to := range unitCanonical {
		s = strings.ReplaceAll(s, from, to)
	}
	return s
}

// ExpandWineTerms rewrites varietal/type abbreviations and English grape names
// to their canonical Korean forms.
func ExpandWineTerms(s string) string {
	out := strings.ToLower(s)
	for _, rule := range wineTermRes {
		out = rule.re.ReplaceAllString(out, rule.repl)
	}
	return out
}

// ExpandProducers rewrites producer-prefix abbreviations (ch → 샤또, dom → 도멘)
// at word boundaries only.
func ExpandProducers(s string) string {
	out := s
	for _, rule := range producerRes {
		out = rule.re.ReplaceAllString(out, rule.repl)
	}
	return out
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens splits the loose form into word tokens.
func Tokens(s string) []string {
	loose := Loose(s)
	if loose == "" {
		return nil
	}
	return strings.Fields(loose)
}

// MeaningfulTokens keeps tokens of length ≥2 that are not pure numbers; these
// anchor the catalog keyword scan.
func MeaningfulTokens(s string) []string {
	var out []string
	for _, tok := range Tokens(s) {
		if len([]rune(tok)) < 2 {
			continue
		}
		if DigitsOnly(tok) == tok {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
