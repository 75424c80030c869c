package types

import (
	"sort"

	"github.com/samber/lo"
)

// Merchant is a store whose gift certificates can be bought through the
// shopping search. Name is the display name used as the search term.
type Merchant struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

var merchants = map[string]string{
	"BaskinRobbins":     "배스킨라빈스",
	"Daiso":             "다이소",
	"EdiyaCoffee":       "이디야커피",
	"MammothCoffee":     "매머드커피",
	"McDonalds":         "맥도날드",
	"MegaCoffee":        "메가커피",
	"OutbackSteakhouse": "아웃백",
	"Starbucks":         "스타벅스",
	"Vips":              "빕스",
}

// ListMerchants returns the merchant catalog sorted by key
func ListMerchants() []Merchant {
	keys := lo.Keys(merchants)
	sort.Strings(keys)

	return lo.Map(keys, func(key string, _ int) Merchant {
		return Merchant{Key: key, Name: merchants[key]}
	})
}

// GetMerchant looks a merchant up by its key
func GetMerchant(key string) (Merchant, bool) {
	name, ok := merchants[key]
	if !ok {
		return Merchant{}, false
	}
	return Merchant{Key: key, Name: name}, true
}
