package dto

import (
	"github.com/flexprice/couponmanager/internal/domain/catalog"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/samber/lo"
)

// ShopItemsRequest selects the merchant to search for. Merchant may be a
// catalog key such as Starbucks or any search name; it is passed through
// as-is when it is not a known key, including when it is empty.
type ShopItemsRequest struct {
	Merchant string `form:"merchant" json:"merchant"`
}

// SearchName resolves the merchant to the name used in search queries
func (r *ShopItemsRequest) SearchName() string {
	if m, ok := types.GetMerchant(r.Merchant); ok {
		return m.Name
	}
	return r.Merchant
}

// ShopItemResponse is a search result with its title split for display
type ShopItemResponse struct {
	*catalog.ShopItem `json:",inline"`
	PlainTitle        string                 `json:"plain_title"`
	TitleSegments     []catalog.TitleSegment `json:"title_segments"`
}

// ListShopItemsResponse lists the merged results for one merchant
type ListShopItemsResponse struct {
	Merchant string              `json:"merchant"`
	Items    []*ShopItemResponse `json:"items"`
	Total    int                 `json:"total"`
}

func NewListShopItemsResponse(merchant string, items []*catalog.ShopItem) *ListShopItemsResponse {
	responses := lo.Map(items, func(item *catalog.ShopItem, _ int) *ShopItemResponse {
		return &ShopItemResponse{
			ShopItem:      item,
			PlainTitle:    catalog.PlainTitle(item.Title),
			TitleSegments: catalog.ParseTitle(item.Title),
		}
	})
	return &ListShopItemsResponse{
		Merchant: merchant,
		Items:    responses,
		Total:    len(responses),
	}
}

// ListMerchantsResponse lists the merchant catalog
type ListMerchantsResponse struct {
	Items []types.Merchant `json:"items"`
}
