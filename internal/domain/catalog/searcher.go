package catalog

import (
	"cmp"
	"context"
	"slices"

	"github.com/samber/lo"
)

// Searcher runs a single shopping search query
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// MergeShopItems concatenates the batches in the order given, keeps the
// first occurrence of every product id and stable-sorts by lowest price.
// The result is never nil.
func MergeShopItems(batches [][]*ShopItem) []*ShopItem {
	items := lo.Filter(lo.Flatten(batches), func(item *ShopItem, _ int) bool {
		return item != nil
	})

	items = lo.UniqBy(items, func(item *ShopItem) string {
		return item.ProductID
	})

	slices.SortStableFunc(items, func(a, b *ShopItem) int {
		return cmp.Compare(a.LPrice, b.LPrice)
	})

	if items == nil {
		return []*ShopItem{}
	}
	return items
}
