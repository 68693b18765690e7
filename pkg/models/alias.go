package models

import "time"

// AliasClass is the specificity classification of an item alias. It is a pure
// function of the alias string, recomputed at lookup time and never persisted,
// so the definition can change without a backfill.
type AliasClass string

const (
	AliasClassExact            AliasClass = "exact"             // tight-normalized equality, hard confirm
	AliasClassContainsSpecific AliasClass = "contains_specific" // long/multi-token substring, hard confirm
	AliasClassContainsWeak     AliasClass = "contains_weak"     // short substring, soft bonus only
)

// ItemAlias maps a learned free-text expression to a canonical item code.
type ItemAlias struct {
	Alias      string    `json:"alias" db:"alias"`
	ItemNo     string    `json:"item_no" db:"item_no"`
	ItemName   string    `json:"item_name" db:"item_name"`
	ClientCode *string   `json:"client_code,omitempty" db:"client_code"`
	Weight     int       `json:"weight" db:"weight"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ClientAlias maps a client name variant to a client account code. Weight grows
// with use and feeds a bounded fuzzy-score bonus.
type ClientAlias struct {
	ClientCode string    `json:"client_code" db:"client_code"`
	Alias      string    `json:"alias" db:"alias"`
	Weight     int       `json:"weight" db:"weight"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// LearnedMatch is the result of an alias-store lookup against a cleaned input.
type LearnedMatch struct {
	Alias    string     `json:"alias"`
	ItemNo   string     `json:"item_no"`
	ItemName string     `json:"item_name"`
	Class    AliasClass `json:"class"`
}

// HardConfirm reports whether the match bypasses the decision engine entirely.
func (m *LearnedMatch) HardConfirm() bool {
	return m.Class == AliasClassExact || m.Class == AliasClassContainsSpecific
}
