package types

// SearchKeyword qualifies a merchant name so the shopping search leans
// towards stored-value products instead of unrelated merchandise.
type SearchKeyword string

const (
	SearchKeywordBalanceManaged  SearchKeyword = "잔액관리형"
	SearchKeywordGiftCertificate SearchKeyword = "디지털상품권"
	SearchKeywordMoney           SearchKeyword = "금액권"
	SearchKeywordPerTenDollar    SearchKeyword = "만원권"
)

// SearchKeywords returns the qualifying keywords in query order. Results are
// merged in this order, so it decides which duplicate survives.
func SearchKeywords() []SearchKeyword {
	return []SearchKeyword{
		SearchKeywordBalanceManaged,
		SearchKeywordGiftCertificate,
		SearchKeywordMoney,
		SearchKeywordPerTenDollar,
	}
}

// Qualify joins a merchant name and the keyword into a search query
func (k SearchKeyword) Qualify(name string) string {
	return name + " " + string(k)
}
