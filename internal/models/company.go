package models

import (
	"github.com/shopspring/decimal"
)

// Company represents a ticker record imported from the screener
type Company struct {
	ID        int                 `json:"id"`
	Ticker    string              `json:"ticker"`
	Company   string              `json:"company"`
	Sector    string              `json:"sector,omitempty"`
	Industry  string              `json:"industry,omitempty"`
	Country   string              `json:"country,omitempty"`
	MarketCap string              `json:"market_cap,omitempty"`
	Price     decimal.Decimal     `json:"price"`
	Float     decimal.NullDecimal `json:"float"`
}
