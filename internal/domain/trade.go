package domain

import (
	"math"
	"strconv"
)

// Trade is one execution row of a Flex statement, flattened.
// JSON tags match the daily file schema, so a Trade written by the daily
// export is read back unchanged by the weekly and monthly reports.
type Trade struct {
	AccountID                 string  `json:"accountId"`
	TradeID                   string  `json:"tradeID"`
	ReportDate                string  `json:"reportDate"`
	TradeDate                 string  `json:"tradeDate"`
	TradeTime                 string  `json:"tradeTime"`
	SettleDateTarget          string  `json:"settleDateTarget"`
	TransactionType           string  `json:"transactionType"`
	Exchange                  string  `json:"exchange"`
	Quantity                  float64 `json:"quantity"`
	TradePrice                float64 `json:"tradePrice"`
	TradeMoney                float64 `json:"tradeMoney"`
	Proceeds                  float64 `json:"proceeds"`
	Taxes                     float64 `json:"taxes"`
	IBCommission              float64 `json:"ibCommission"`
	IBCommissionCurrency      string  `json:"ibCommissionCurrency"`
	NetCash                   float64 `json:"netCash"`
	ClosePrice                float64 `json:"closePrice"`
	OpenCloseIndicator        string  `json:"openCloseIndicator"`
	Notes                     string  `json:"notes"`
	Cost                      float64 `json:"cost"`
	FifoPnlRealized           float64 `json:"fifoPnlRealized"`
	MtmPnl                    float64 `json:"mtmPnl"`
	OrigTradePrice            float64 `json:"origTradePrice"`
	OrigTradeDate             string  `json:"origTradeDate"`
	OrigTradeID               string  `json:"origTradeID"`
	OrigOrderID               string  `json:"origOrderID"`
	OpenDateTime              string  `json:"openDateTime"`
	AssetCategory             string  `json:"assetCategory"`
	Symbol                    string  `json:"symbol"`
	Description               string  `json:"description"`
	Conid                     string  `json:"conid"`
	SecurityID                string  `json:"securityID"`
	SecurityIDType            string  `json:"securityIDType"`
	Cusip                     string  `json:"cusip"`
	Isin                      string  `json:"isin"`
	ListingExchange           string  `json:"listingExchange"`
	UnderlyingConid           string  `json:"underlyingConid"`
	UnderlyingSymbol          string  `json:"underlyingSymbol"`
	UnderlyingSecurityID      string  `json:"underlyingSecurityID"`
	UnderlyingListingExchange string  `json:"underlyingListingExchange"`
	Issuer                    string  `json:"issuer"`
	Multiplier                float64 `json:"multiplier"`
	Strike                    float64 `json:"strike"`
	Expiry                    string  `json:"expiry"`
	PutCall                   string  `json:"putCall"`
	PrincipalAdjustFactor     float64 `json:"principalAdjustFactor"`

	// Derived at extraction time.
	PnL        float64 `json:"pnl"`
	Commission float64 `json:"commission"` // always |ibCommission|
	Currency   string  `json:"currency"`
}

// RealizedPnL returns the P&L used by every report. Falls back to
// fifoPnlRealized for records written before pnl was derived.
func (t Trade) RealizedPnL() float64 {
	if t.PnL != 0 {
		return t.PnL
	}
	return t.FifoPnlRealized
}

// Category returns the asset category, "Unknown" when blank.
func (t Trade) Category() string {
	if t.AssetCategory == "" {
		return Unknown
	}
	return t.AssetCategory
}

// Notional is the traded amount |quantity × price|.
func (t Trade) Notional() float64 {
	return math.Abs(t.Quantity * t.TradePrice)
}

// Date returns the normalized trade date, falling back to the report date.
func (t Trade) Date() string {
	if t.TradeDate != "" {
		return NormalizeDate(t.TradeDate)
	}
	return NormalizeDate(t.ReportDate)
}

// Hour parses the hour from the first two characters of tradeTime.
// Both "093015" and "09:30:15" yield 9.
func (t Trade) Hour() (int, bool) {
	if len(t.TradeTime) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(t.TradeTime[:2])
	if err != nil {
		return 0, false
	}
	return h, true
}

// Position is an open holding as of a report date.
type Position struct {
	AccountID         string  `json:"accountId"`
	Symbol            string  `json:"symbol"`
	Description       string  `json:"description"`
	Conid             string  `json:"conid"`
	ReportDate        string  `json:"reportDate"`
	Position          float64 `json:"position"`
	MarkPrice         float64 `json:"markPrice"`
	PositionValue     float64 `json:"positionValue"`
	OpenPrice         float64 `json:"openPrice"`
	CostBasisPrice    float64 `json:"costBasisPrice"`
	CostBasisMoney    float64 `json:"costBasisMoney"`
	FifoPnlUnrealized float64 `json:"fifoPnlUnrealized"`
	AssetCategory     string  `json:"assetCategory"`
	Currency          string  `json:"currency"`
}

// CashBalance holds the balances of one currency in one account.
type CashBalance struct {
	StartingCash      float64 `json:"startingCash"`
	EndingCash        float64 `json:"endingCash"`
	EndingSettledCash float64 `json:"endingSettledCash"`
}

// CashReport maps accountID → currency → balances.
type CashReport map[string]map[string]CashBalance

// HasData reports whether any account has at least one cash entry.
func (c CashReport) HasData() bool {
	for _, byCurrency := range c {
		if len(byCurrency) > 0 {
			return true
		}
	}
	return false
}

// AccountInfo is the per-account metadata of a statement.
type AccountInfo struct {
	AccountID      string `json:"accountId"`
	Alias          string `json:"alias"`
	Currency       string `json:"currency"`
	Type           string `json:"type"`
	DateOpened     string `json:"dateOpened"`
	LastTradedDate string `json:"lastTradedDate"`
}

// Statement is everything extracted from one Flex report.
type Statement struct {
	Accounts  []AccountInfo // document order
	Trades    []Trade
	Positions []Position
	Cash      CashReport
}

// PrimaryAccount returns the first account of the statement, or "Unknown".
func (s Statement) PrimaryAccount() string {
	if len(s.Accounts) > 0 {
		return s.Accounts[0].AccountID
	}
	return Unknown
}

// Unknown labels a missing account, symbol or asset category.
const Unknown = "Unknown"
