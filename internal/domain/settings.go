package domain

import "github.com/shopspring/decimal"

type Settings struct {
	Notifications map[string]bool `json:"notifications"`
	Facilities    map[string]bool `json:"facilities"`
	Services      map[string]bool `json:"services"`
	TableTypes    []string        `json:"tableTypes"`
	AdsSpend      decimal.Decimal `json:"adsSpend"`
}

func DefaultSettings() Settings {
	return Settings{
		Notifications: map[string]bool{
			"newOrders":      true,
			"orderUpdates":   true,
			"refundRequests": true,
			"payouts":        true,
		},
		Facilities: map[string]bool{},
		Services: map[string]bool{
			"delivery": true,
			"takeaway": true,
			"dineIn":   true,
			"booking":  true,
		},
		TableTypes: []string{"Normal"},
		AdsSpend:   decimal.Zero,
	}
}

func (s Settings) HasTableType(t string) bool {
	for _, tt := range s.TableTypes {
		if tt == t {
			return true
		}
	}
	return false
}

func (s Settings) Clone() Settings {
	return Settings{
		Notifications: cloneFlags(s.Notifications),
		Facilities:    cloneFlags(s.Facilities),
		Services:      cloneFlags(s.Services),
		TableTypes:    append([]string(nil), s.TableTypes...),
		AdsSpend:      s.AdsSpend,
	}
}

func cloneFlags(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
