// Package extractor turns a raw chat message into a client hint and parsed
// order lines. Chat orders arrive as free text: greetings, a client name on
// the first line if the sender bothered, then "name quantity" lines in any of
// a handful of shapes.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/codes"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Message is the client-hint / order-block split of one chat message.
type Message struct {
	ClientHint string
	OrderText  string
}

var (
	// orderFirstLineRe decides that the first line is already an order line,
	// not a client name.
	orderFirstLineRe = regexp.MustCompile(`(?i)(\d|병|박스|cs|box|bt|btl)`)

	// caseQtyRe: "name 2cs", "name 3 박스" (case-count orders).
	caseQtyRe = regexp.MustCompile(`(?i)^(.*\S)\s*(\d+)\s*(?:cs|박스)$`)

	// endQtyUnitRe: "name 2병", "name 2 bt".
	endQtyUnitRe = regexp.MustCompile(`(?i)^(.*\S)\s*(\d+)\s*` + normalizers.UnitPattern + `$`)

	// endQtyBareRe: "name 2". A 1900-2099 number here is a vintage, not a
	// quantity, so years are checked before this fires.
	endQtyBareRe = regexp.MustCompile(`^(.*\S)\s+(\d+)$`)

	// leadQtyRe: "2 name" reversed order. Same year prohibition applies.
	leadQtyRe = regexp.MustCompile(`^(\d+)\s+(.*\S)\s*$`)

	vintageRe = regexp.MustCompile(`(^|\s)((?:19|20)\d{2})($|\s)`)
)

// Split separates a chat message into client hint and order block. Explicit
// fields on the request win over message heuristics.
func Split(req models.OrderRequest) Message {
	if req.OrderText != "" {
		return Message{ClientHint: req.ClientHint, OrderText: req.OrderText}
	}

	cleaned := normalizers.StripBoilerplate(req.Message)
	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	switch {
	case len(lines) == 0:
		return Message{ClientHint: req.ClientHint}
	case len(lines) == 1:
		return Message{ClientHint: req.ClientHint, OrderText: lines[0]}
	}

	// A first line that already looks like an order line means the sender
	// skipped the client name. A name-shaped first line comes off the order
	// block even when the request carries an explicit hint: the hint wins,
	// and the line would only parse as a junk item.
	if !orderFirstLineRe.MatchString(lines[0]) {
		hint := req.ClientHint
		if hint == "" {
			hint = lines[0]
		}
		return Message{ClientHint: hint, OrderText: strings.Join(lines[1:], "\n")}
	}
	return Message{ClientHint: req.ClientHint, OrderText: strings.Join(lines, "\n")}
}

// ParseLines parses the order block into lines with name, quantity and an
// optional vintage hint. Lines naming the same item are merged with summed
// quantities.
func ParseLines(orderText string) []models.OrderLine {
	var out []models.OrderLine
	for _, raw := range strings.Split(orderText, "\n") {
		line, ok := parseLine(raw)
		if !ok {
			continue
		}
		out = append(out, line)
	}
	return mergeSameName(out)
}

// lineCleanupChain is the registered-normalizer chain every raw line passes
// through before quantity parsing.
var lineCleanupChain = []string{"trim", "strip_tail_phrases", "normalize_quantity"}

func parseLine(raw string) (models.OrderLine, bool) {
	s := normalizers.ApplyChain(raw, lineCleanupChain...)
	if s == "" {
		return models.OrderLine{}, false
	}

	line := models.OrderLine{Raw: raw, Qty: 1}

	name, qty := splitQty(s)
	line.Qty = qty

	// Vintage year comes off the name into its own hint.
	if m := vintageRe.FindStringSubmatch(name); m != nil {
		line.VintageHint = m[2]
		name = strings.TrimSpace(vintageRe.ReplaceAllString(name, "$1$3"))
	}

	// Residual quantity tokens the splitter could not anchor (mid-line "2병")
	// come off the name before matching.
	name = normalizers.StripQtyUnit(name)
	if name == "" {
		return models.OrderLine{}, false
	}
	line.Name = name
	line.Code = codes.Extract(raw)
	return line, true
}

// splitQty peels the quantity off a cleaned line. Quantity shapes, in order of
// trust: "name Ncs", "name N<unit>", "name N" (non-year), "N name" (non-year).
func splitQty(s string) (string, int) {
	if m := caseQtyRe.FindStringSubmatch(s); m != nil {
		return m[1], atoiOr(m[2], 1)
	}
	if m := endQtyUnitRe.FindStringSubmatch(s); m != nil {
		return m[1], atoiOr(m[2], 1)
	}
	if m := endQtyBareRe.FindStringSubmatch(s); m != nil && !isYear(m[2]) {
		return m[1], atoiOr(m[2], 1)
	}
	if m := leadQtyRe.FindStringSubmatch(s); m != nil && !isYear(m[1]) {
		return m[2], atoiOr(m[1], 1)
	}
	return s, 1
}

func mergeSameName(lines []models.OrderLine) []models.OrderLine {
	var out []models.OrderLine
	seen := make(map[string]int)
	for _, line := range lines {
		key := strings.ToLower(line.Name)
		if n, ok := seen[key]; ok {
			out[n].Qty += line.Qty
			continue
		}
		seen[key] = len(out)
		out = append(out, line)
	}
	return out
}

func isYear(tok string) bool {
	n, err := strconv.Atoi(tok)
	return err == nil && n >= 1900 && n <= 2099
}

func atoiOr(tok string, fallback int) int {
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
