package models

import (
	"encoding/json"
	"strings"
)

const (
	KindProject    = "project"
	KindInvestment = "investment"
)

// ParseKind accepts singular or plural collection names.
func ParseKind(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project", "projects":
		return KindProject, true
	case "investment", "investments":
		return KindInvestment, true
	}
	return "", false
}

// RawRecord is a project or investment exactly as it appears in the static
// JSON files. Numeric and identifier fields stay raw until normalization.
type RawRecord struct {
	ID          json.RawMessage `json:"id"`
	Name        LooseText       `json:"name"`
	Title       LooseText       `json:"title"`
	Description LooseText       `json:"description"`
	Country     LooseText       `json:"country"`
	Location    LooseText       `json:"location"`
	City        LooseText       `json:"city"`
	Sector      LooseText       `json:"sector"`
	Image       string          `json:"image"`
	Status      string          `json:"status"`
	Year        json.RawMessage `json:"year"`
	Financial   RawFinancial    `json:"financial_indicators"`
}

type RawFinancial struct {
	TotalInvestment      json.RawMessage `json:"total_investment"`
	InternalRateOfReturn json.RawMessage `json:"internal_rate_of_return"`
	PaybackPeriod        json.RawMessage `json:"payback_period"`
	ExpectedProfit       json.RawMessage `json:"expected_profit"`
}

// Category is a resolved classification: a machine key plus its display name.
type Category struct {
	Key   string `json:"key"`
	Label Text   `json:"label"`
}

type Financial struct {
	TotalInvestment float64  `json:"total_investment"`
	RateOfReturn    string   `json:"internal_rate_of_return"`
	PaybackPeriod   string   `json:"payback_period"`
	ExpectedProfit  *float64 `json:"expected_profit,omitempty"`
}

// Record is the canonical project/investment shape every consumer works with.
type Record struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        Text      `json:"name"`
	Description Text      `json:"description"`
	Country     Category  `json:"country"`
	Location    Text      `json:"location"`
	Sector      Category  `json:"sector"`
	Financial   Financial `json:"financial_indicators"`
	Image       string    `json:"image,omitempty"`
	Status      string    `json:"status,omitempty"`
	Year        int       `json:"year,omitempty"`
}
