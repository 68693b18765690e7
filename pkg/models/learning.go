package models

import "time"

// SearchLearning accumulates confirmed query→item selections. The normalized
// search key strips quantities, digits, punctuation and whitespace so repeated
// phrasings of the same order line collapse onto one row.
type SearchLearning struct {
	SearchKey  string    `json:"search_key" db:"search_key"`
	ItemNo     string    `json:"item_no" db:"item_no"`
	HitCount   int       `json:"hit_count" db:"hit_count"`
	LastUsedAt time.Time `json:"last_used_at" db:"last_used_at"`
}

// ConfirmAliasRequest records a human confirmation of a non-auto-resolved line.
type ConfirmAliasRequest struct {
	Alias      string `json:"alias" validate:"required"`
	ItemNo     string `json:"item_no" validate:"required"`
	ItemName   string `json:"item_name"`
	ClientCode string `json:"client_code"`
}

// RecordSelectionRequest accumulates a candidate pick for search learning.
type RecordSelectionRequest struct {
	Query  string `json:"query" validate:"required"`
	ItemNo string `json:"item_no" validate:"required"`
}
