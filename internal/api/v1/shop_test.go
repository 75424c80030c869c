package v1_test

import (
	"net/http"

	"github.com/flexprice/couponmanager/internal/domain/catalog"
	"github.com/flexprice/couponmanager/internal/types"
)

func shopItem(id, title string, lprice int) *catalog.ShopItem {
	return &catalog.ShopItem{ProductID: id, Title: title, LPrice: lprice}
}

func (s *HandlerSuite) TestListMerchants() {
	status, body := s.do(http.MethodGet, "/v1/shop/merchants", nil)
	s.Require().Equal(http.StatusOK, status)

	items := body["items"].([]any)
	s.Len(items, len(types.ListMerchants()))
	first := items[0].(map[string]any)
	s.Equal("BaskinRobbins", first["key"])
	s.Equal("배스킨라빈스", first["name"])
}

func (s *HandlerSuite) TestListShopItems() {
	searcher := s.GetStores().Searcher
	searcher.SetItems(types.SearchKeywordBalanceManaged.Qualify("맥도날드"),
		shopItem("A", "<b>맥도날드</b> 금액권", 5000),
		shopItem("B", "맥도날드 &amp; 디저트", 3000))
	searcher.SetItems(types.SearchKeywordGiftCertificate.Qualify("맥도날드"),
		shopItem("B", "맥도날드 &amp; 디저트", 3000),
		shopItem("C", "빅맥 세트", 1000))

	status, body := s.do(http.MethodGet, "/v1/shop/items?merchant=McDonalds", nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("맥도날드", body["merchant"])
	s.EqualValues(3, body["total"])

	items := body["items"].([]any)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.(map[string]any)["productId"].(string))
	}
	s.Equal([]string{"C", "B", "A"}, ids)

	last := items[2].(map[string]any)
	s.Equal("맥도날드 금액권", last["plain_title"])
	segments := last["title_segments"].([]any)
	s.Require().Len(segments, 2)
	s.Equal(map[string]any{"text": "맥도날드", "bold": true}, segments[0])
	s.Equal(map[string]any{"text": " 금액권", "bold": false}, segments[1])

	s.Equal("맥도날드 & 디저트", items[1].(map[string]any)["plain_title"])
	s.Len(searcher.Calls(), len(types.SearchKeywords()))
}

func (s *HandlerSuite) TestListShopItemsUsesCacheUntilInvalidated() {
	searcher := s.GetStores().Searcher
	searcher.SetItems(types.SearchKeywordMoney.Qualify("Unlisted Cafe"), shopItem("A", "a", 1))

	status, body := s.do(http.MethodGet, "/v1/shop/items?merchant=Unlisted%20Cafe", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("Unlisted Cafe", body["merchant"])
	s.EqualValues(1, body["total"])

	status, _ = s.do(http.MethodGet, "/v1/shop/items?merchant=Unlisted%20Cafe", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(searcher.Calls(), 4)

	status, body = s.do(http.MethodDelete, "/v1/shop/items?merchant=Unlisted%20Cafe", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("cache invalidated", body["message"])

	status, _ = s.do(http.MethodGet, "/v1/shop/items?merchant=Unlisted%20Cafe", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(searcher.Calls(), 8)
}

func (s *HandlerSuite) TestListShopItemsEmpty() {
	status, body := s.do(http.MethodGet, "/v1/shop/items?merchant=Vips", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal([]any{}, body["items"])
	s.EqualValues(0, body["total"])
}
