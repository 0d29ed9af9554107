package flexquery

import (
	"math"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

// toTrade convierte los atributos de un <Trade> a domain.Trade.
// pnl, commission y currency se derivan aquí.
func toTrade(accountID string, a attrs) domain.Trade {
	commissionCurrency := a.strOr("ibCommissionCurrency", "USD")
	return domain.Trade{
		AccountID:                 accountID,
		TradeID:                   a.str("tradeID"),
		ReportDate:                a.str("reportDate"),
		TradeDate:                 a.str("tradeDate"),
		TradeTime:                 a.str("tradeTime"),
		SettleDateTarget:          a.str("settleDateTarget"),
		TransactionType:           a.str("transactionType"),
		Exchange:                  a.str("exchange"),
		Quantity:                  a.float("quantity"),
		TradePrice:                a.float("tradePrice"),
		TradeMoney:                a.float("tradeMoney"),
		Proceeds:                  a.float("proceeds"),
		Taxes:                     a.float("taxes"),
		IBCommission:              a.float("ibCommission"),
		IBCommissionCurrency:      commissionCurrency,
		NetCash:                   a.float("netCash"),
		ClosePrice:                a.float("closePrice"),
		OpenCloseIndicator:        a.str("openCloseIndicator"),
		Notes:                     a.str("notes"),
		Cost:                      a.float("cost"),
		FifoPnlRealized:           a.float("fifoPnlRealized"),
		MtmPnl:                    a.float("mtmPnl"),
		OrigTradePrice:            a.float("origTradePrice"),
		OrigTradeDate:             a.str("origTradeDate"),
		OrigTradeID:               a.str("origTradeID"),
		OrigOrderID:               a.str("origOrderID"),
		OpenDateTime:              a.str("openDateTime"),
		AssetCategory:             a.str("assetCategory"),
		Symbol:                    a.str("symbol"),
		Description:               a.str("description"),
		Conid:                     a.str("conid"),
		SecurityID:                a.str("securityID"),
		SecurityIDType:            a.str("securityIDType"),
		Cusip:                     a.str("cusip"),
		Isin:                      a.str("isin"),
		ListingExchange:           a.str("listingExchange"),
		UnderlyingConid:           a.str("underlyingConid"),
		UnderlyingSymbol:          a.str("underlyingSymbol"),
		UnderlyingSecurityID:      a.str("underlyingSecurityID"),
		UnderlyingListingExchange: a.str("underlyingListingExchange"),
		Issuer:                    a.str("issuer"),
		Multiplier:                a.floatOr("multiplier", 1),
		Strike:                    a.float("strike"),
		Expiry:                    a.str("expiry"),
		PutCall:                   a.str("putCall"),
		PrincipalAdjustFactor:     a.floatOr("principalAdjustFactor", 1),

		PnL:        a.float("fifoPnlRealized"),
		Commission: math.Abs(a.float("ibCommission")),
		Currency:   a.strOr("currency", commissionCurrency),
	}
}

// toPosition convierte los atributos de un <OpenPosition> a domain.Position.
func toPosition(accountID string, a attrs) domain.Position {
	return domain.Position{
		AccountID:         accountID,
		Symbol:            a.str("symbol"),
		Description:       a.str("description"),
		Conid:             a.str("conid"),
		ReportDate:        a.str("reportDate"),
		Position:          a.float("position"),
		MarkPrice:         a.float("markPrice"),
		PositionValue:     a.float("positionValue"),
		OpenPrice:         a.float("openPrice"),
		CostBasisPrice:    a.float("costBasisPrice"),
		CostBasisMoney:    a.float("costBasisMoney"),
		FifoPnlUnrealized: a.float("fifoPnlUnrealized"),
		AssetCategory:     a.str("assetCategory"),
		Currency:          a.strOr("currency", "USD"),
	}
}

func toCashBalance(a attrs) domain.CashBalance {
	return domain.CashBalance{
		StartingCash:      a.float("startingCash"),
		EndingCash:        a.float("endingCash"),
		EndingSettledCash: a.float("endingSettledCash"),
	}
}

// toAccountInfo convierte <AccountInformation> a domain.AccountInfo.
func toAccountInfo(accountID string, a attrs) domain.AccountInfo {
	return domain.AccountInfo{
		AccountID:      accountID,
		Alias:          a.str("acctAlias"),
		Currency:       a.strOr("currency", "USD"),
		Type:           a.str("accountType"),
		DateOpened:     a.str("dateOpened"),
		LastTradedDate: a.str("lastTradedDate"),
	}
}
