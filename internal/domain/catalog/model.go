package catalog

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ShopItem is a single product returned by the shopping search API. Title is
// kept verbatim and may contain <b>...</b> highlight markup.
type ShopItem struct {
	ProductID   string `json:"productId"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	MallName    string `json:"mallName"`
	Brand       string `json:"brand"`
	Maker       string `json:"maker"`
	Category1   string `json:"category1"`
	Category2   string `json:"category2"`
	Category3   string `json:"category3"`
	Category4   string `json:"category4"`
	LPrice      int    `json:"lprice"`
	HPrice      int    `json:"hprice"`
	ProductType *int   `json:"productType,omitempty"`
}

// SearchResult is the response envelope of one search call
type SearchResult struct {
	LastBuildDate string      `json:"lastBuildDate"`
	Total         int         `json:"total"`
	Start         int         `json:"start"`
	Display       int         `json:"display"`
	Items         []*ShopItem `json:"items"`
}

type shopItemWire struct {
	ProductID   string      `json:"productId"`
	Title       string      `json:"title"`
	Link        string      `json:"link"`
	Image       string      `json:"image"`
	MallName    string      `json:"mallName"`
	Brand       string      `json:"brand"`
	Maker       string      `json:"maker"`
	Category1   string      `json:"category1"`
	Category2   string      `json:"category2"`
	Category3   string      `json:"category3"`
	Category4   string      `json:"category4"`
	LPrice      lenientInt  `json:"lprice"`
	HPrice      lenientInt  `json:"hprice"`
	ProductType optionalInt `json:"productType"`
}

// UnmarshalJSON accepts prices both as numbers and as numeric strings. A
// price that cannot be parsed becomes 0 and a malformed productType is
// treated as absent.
func (s *ShopItem) UnmarshalJSON(data []byte) error {
	var wire shopItemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*s = ShopItem{
		ProductID: wire.ProductID,
		Title:     wire.Title,
		Link:      wire.Link,
		Image:     wire.Image,
		MallName:  wire.MallName,
		Brand:     wire.Brand,
		Maker:     wire.Maker,
		Category1: wire.Category1,
		Category2: wire.Category2,
		Category3: wire.Category3,
		Category4: wire.Category4,
		LPrice:    int(wire.LPrice),
		HPrice:    int(wire.HPrice),
	}
	if wire.ProductType.valid {
		v := wire.ProductType.value
		s.ProductType = &v
	}
	return nil
}

type lenientInt int

func (i *lenientInt) UnmarshalJSON(data []byte) error {
	v, _ := parseLenientInt(data)
	*i = lenientInt(v)
	return nil
}

type optionalInt struct {
	value int
	valid bool
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	o.value, o.valid = parseLenientInt(data)
	return nil
}

// parseLenientInt reads a JSON number or a quoted numeric string
func parseLenientInt(data []byte) (int, bool) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	s := string(raw)
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return 0, false
		}
		s = strings.TrimSpace(unquoted)
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(v), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f), true
	}
	return 0, false
}
