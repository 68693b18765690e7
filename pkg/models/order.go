package models

// OrderLine is one parsed "name + quantity" line from the order block.
// Ephemeral: created per message, consumed once resolved.
type OrderLine struct {
	Raw         string `json:"raw"`
	Name        string `json:"name"`
	Qty         int    `json:"qty"`
	VintageHint string `json:"vintage_hint,omitempty"` // 4-digit year lifted off the line, never a quantity
	Code        string `json:"code,omitempty"`         // structured code token, when the line is code-shaped
}

// SignalBreakdown records the additive terms behind a candidate's final score.
type SignalBreakdown struct {
	Base         float64 `json:"base"`
	LearnedBonus float64 `json:"learned_bonus,omitempty"`
	SearchBonus  float64 `json:"search_bonus,omitempty"`
	RecencyBonus float64 `json:"recency_bonus,omitempty"`
	VintageBonus float64 `json:"vintage_bonus,omitempty"`
}

// ScoredCandidate is one ranked catalog candidate for an order line.
type ScoredCandidate struct {
	ItemNo    string          `json:"item_no"`
	ItemName  string          `json:"item_name"`
	Score     float64         `json:"score"`
	InHistory bool            `json:"in_client_history"`
	Signals   SignalBreakdown `json:"signals,omitempty"`
}

// Resolution method values reported per line.
const (
	MethodExactAlias    = "exact_alias"
	MethodSpecificAlias = "specific_alias"
	MethodExactCode     = "exact_code"
	MethodCodePrefix    = "code_prefix"
	MethodFuzzy         = "fuzzy"
	MethodVintageSwap   = "vintage_swap"
)

// ItemResolution is the terminal result for one order line.
type ItemResolution struct {
	Name               string            `json:"name"`
	Qty                int               `json:"qty"`
	Resolved           bool              `json:"resolved"`
	ItemNo             string            `json:"item_no,omitempty"`
	ItemName           string            `json:"item_name,omitempty"`
	Score              float64           `json:"score,omitempty"`
	Method             string            `json:"method,omitempty"`
	NotInClientHistory bool              `json:"not_in_client_history,omitempty"`
	Candidates         []ScoredCandidate `json:"candidates"`
}

// Client resolution statuses and methods.
const (
	ClientStatusResolved    = "resolved"
	ClientStatusNeedsReview = "needs_review_client"

	ClientMethodExactCode     = "exact_code"
	ClientMethodExactNorm     = "exact_norm_firstline"
	ClientMethodFuzzyAuto     = "fuzzy_auto"
	ClientMethodFuzzyForce    = "fuzzy_force"
)

// ClientCandidate is one ranked client-account candidate.
type ClientCandidate struct {
	ClientCode string  `json:"client_code"`
	ClientName string  `json:"client_name"`
	Score      float64 `json:"score"`
}

// ClientResolution is the terminal result of matching the client hint.
type ClientResolution struct {
	Status     string            `json:"status"`
	ClientCode string            `json:"client_code,omitempty"`
	ClientName string            `json:"client_name,omitempty"`
	Score      float64           `json:"score,omitempty"`
	Method     string            `json:"method,omitempty"`
	HintUsed   string            `json:"hint_used,omitempty"`
	Candidates []ClientCandidate `json:"candidates,omitempty"`
}

// Order resolution statuses.
const (
	OrderStatusResolved         = "resolved"
	OrderStatusNeedsReviewClient = "needs_review_client"
	OrderStatusNeedsReviewItems  = "needs_review_items"
)

// OrderRequest is one order-resolution call.
type OrderRequest struct {
	Message      string `json:"message"`
	ClientHint   string `json:"client_hint,omitempty"`
	OrderText    string `json:"order_text,omitempty"`
	ForceResolve bool   `json:"force_resolve,omitempty"`
}

// OrderResponse is the structured, confidence-scored order.
type OrderResponse struct {
	Status string           `json:"status"`
	Client ClientResolution `json:"client"`
	Items  []ItemResolution `json:"items"`
}
