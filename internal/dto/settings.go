package dto

import "github.com/shopspring/decimal"

// SettingsPatchRequest updates the sections that are present. Flag maps are merged
// key by key.
type SettingsPatchRequest struct {
	Notifications map[string]bool  `json:"notifications"`
	Facilities    map[string]bool  `json:"facilities"`
	Services      map[string]bool  `json:"services"`
	TableTypes    []string         `json:"tableTypes"`
	AdsSpend      *decimal.Decimal `json:"adsSpend"`
}
