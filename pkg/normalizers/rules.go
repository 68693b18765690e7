package normalizers

import "regexp"

// The rewrite rules in this file are data. Adding a greeting phrase, a unit
// spelling or a varietal abbreviation is a table edit, not a code change.

type rewriteRule struct {
	re   *regexp.Regexp
	repl string
}

// UnitPattern covers every quantity unit seen in chat orders, Korean and Latin.
const UnitPattern = `(?:병|박스|케이스|짝|개|잔|본|보틀|바틀|cs|case|box|bt|btl|ea|pcs)`

var (
	// qtyUnitRe matches "2병", "2 병", "x2", "*3박스" style quantity tokens.
	qtyUnitRe = regexp.MustCompile(`(?i)(?:[x*]\s*\d+|\d+\s*` + UnitPattern + `)`)

	// bareNumberRe matches standalone numbers (quantities without a unit).
	// Four-digit 19xx/20xx tokens survive as vintage hints.
	bareNumberRe = regexp.MustCompile(`(?:^|\s)(?:(?:1[0-8]|2[1-9])\d{2}|\d{1,3}|\d{5,})(?:\s|$)`)

	// trailingNumberRe matches a bare integer at end of line, after units are gone.
	trailingNumberRe = regexp.MustCompile(`\s+\d+\s*$`)
)

// corporateMarkers are dropped from client names before comparison.
var corporateMarkers = []string{
	"주식회사",
	"(주)",
	"(유)",
	"㈜",
	"주)",
	"유)",
}

// boilerplatePhrases are greeting, courtesy and sign-off fragments that carry
// no order content. Removed wherever they appear in the message.
var boilerplatePhrases = []string{
	`안녕하세요[.!~\s]*`,
	`안녕하십니까[.!~\s]*`,
	`수고\s*많으십니다[.!~\s]*`,
	`수고하세요[.!~\s]*`,
	`수고하십니다[.!~\s]*`,
	`감사합니다[.!~\s]*`,
	`감사드립니다[.!~\s]*`,
	`고맙습니다[.!~\s]*`,
	`잘\s*부탁드립니다[.!~\s]*`,
	`잘\s*부탁드려요[.!~\s]*`,
	`부탁드리겠습니다[.!~\s]*`,
	`좋은\s*하루\s*되세요[.!~\s]*`,
	`확인\s*부탁드립니다[.!~\s]*`,
	`발주\s*넣어주세요[.!~\s]*`,
	`발주\s*부탁드립니다[.!~\s]*`,
	`주문\s*부탁드립니다[.!~\s]*`,
	`주문이요[.!~\s]*`,
	`주문\s*넣습니다[.!~\s]*`,
	`배송\s*부탁드립니다[.!~\s]*`,
	`내일\s*배송\s*부탁드립니다[.!~\s]*`,
}

var boilerplateRes = compileAll(boilerplatePhrases)

// tailPhrases trail the last order line ("...요청드립니다") and must come off
// before quantity parsing or they swallow the unit token.
var tailPhrases = []string{
	`요청\s*드립니다\s*$`,
	`요청합니다\s*$`,
	`부탁드립니다\s*$`,
	`부탁드려요\s*$`,
	`부탁해요\s*$`,
	`주세요\s*$`,
	`보내주세요\s*$`,
	`넣어주세요\s*$`,
	`배송해주세요\s*$`,
	`발주합니다\s*$`,
	`주문합니다\s*$`,
	`이요\s*$`,
}

var tailPhraseRes = compileAll(tailPhrases)

// koreanNumeralRes rewrite native-Korean numerals immediately before a unit.
// Leading space anchor keeps "모두" and similar words from losing a syllable.
var koreanNumeralRes = []rewriteRule{
	{regexp.MustCompile(`(^|\s)한\s*(` + UnitPattern + `)`), "${1}1$2"},
	{regexp.MustCompile(`(^|\s)두\s*(` + UnitPattern + `)`), "${1}2$2"},
	{regexp.MustCompile(`(^|\s)세\s*(` + UnitPattern + `)`), "${1}3$2"},
	{regexp.MustCompile(`(^|\s)네\s*(` + UnitPattern + `)`), "${1}4$2"},
	{regexp.MustCompile(`(^|\s)다섯\s*(` + UnitPattern + `)`), "${1}5$2"},
	{regexp.MustCompile(`(^|\s)여섯\s*(` + UnitPattern + `)`), "${1}6$2"},
	{regexp.MustCompile(`(^|\s)일곱\s*(` + UnitPattern + `)`), "${1}7$2"},
	{regexp.MustCompile(`(^|\s)여덟\s*(` + UnitPattern + `)`), "${1}8$2"},
	{regexp.MustCompile(`(^|\s)아홉\s*(` + UnitPattern + `)`), "${1}9$2"},
	{regexp.MustCompile(`(^|\s)열\s*(` + UnitPattern + `)`), "${1}10$2"},
}

// unitCanonical folds unit spelling variants onto one form per unit.
var unitCanonical = map[string]string{
	"보틀":   "병",
	"바틀":   "병",
	"케이스":  "박스",
	"짝":    "박스",
	"btl":  "bt",
	"case": "cs",
	"box":  "박스",
}

// wineTermRes expand varietal and wine-type shorthand, Korean and English, to
// the canonical Korean catalog spelling. Applied to lower-cased input. Korean
// tokens use explicit space anchors: \b only fires next to ASCII word chars.
var wineTermRes = []rewriteRule{
	{regexp.MustCompile(`(^|\s)샤도($|\s)`), "${1}샤르도네${2}"},
	{regexp.MustCompile(`(^|\s)샤르도($|\s)`), "${1}샤르도네${2}"},
	{regexp.MustCompile(`(^|\s)까쇼($|\s)`), "${1}까베르네 소비뇽${2}"},
	{regexp.MustCompile(`(^|\s)카쇼($|\s)`), "${1}까베르네 소비뇽${2}"},
	{regexp.MustCompile(`(^|\s)쏘블($|\s)`), "${1}소비뇽 블랑${2}"},
	{regexp.MustCompile(`(^|\s)소블($|\s)`), "${1}소비뇽 블랑${2}"},
	{regexp.MustCompile(`(^|\s)삐노($|\s)`), "${1}피노${2}"},
	{regexp.MustCompile(`\bchardonnay\b`), "샤르도네"},
	{regexp.MustCompile(`\bcabernet\s+sauvignon\b`), "까베르네 소비뇽"},
	{regexp.MustCompile(`\bsauvignon\s+blanc\b`), "소비뇽 블랑"},
	{regexp.MustCompile(`\bpinot\s+noir\b`), "피노 누아"},
	{regexp.MustCompile(`\bmerlot\b`), "메를로"},
	{regexp.MustCompile(`\bsyrah\b`), "시라"},
	{regexp.MustCompile(`\bshiraz\b`), "쉬라즈"},
	{regexp.MustCompile(`\briesling\b`), "리슬링"},
	{regexp.MustCompile(`\brosé\b`), "로제"},
	{regexp.MustCompile(`\brose\b`), "로제"},
	{regexp.MustCompile(`\bbrut\b`), "브뤼"},
}

// producerRes expand producer-prefix abbreviations at word boundaries.
var producerRes = []rewriteRule{
	{regexp.MustCompile(`(?i)\bch\.?\s+`), "샤또 "},
	{regexp.MustCompile(`(?i)\bdom\.?\s+`), "도멘 "},
	{regexp.MustCompile(`(?i)\bdomaine\s+`), "도멘 "},
	{regexp.MustCompile(`(?i)\bchateau\s+`), "샤또 "},
	{regexp.MustCompile(`(?i)\bchâteau\s+`), "샤또 "},
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
