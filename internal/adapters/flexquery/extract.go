package flexquery

import (
	"math"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

const (
	statementXPath = "//FlexStatement"
	tradeXPath     = ".//Trade"
	positionXPath  = ".//OpenPosition"
	// Los reportes actuales anidan CashReportCurrency dentro de CashReport;
	// los antiguos ponen los atributos directamente en CashReport.
	cashXPath = ".//CashReportCurrency | .//CashReport[@currency]"
)

// Extract aplana un FlexQueryResponse en registros planos.
// Nunca falla: atributos ausentes o ilegibles toman su valor por defecto.
func Extract(doc *xmlquery.Node) domain.Statement {
	st := domain.Statement{
		Trades:    []domain.Trade{},
		Positions: []domain.Position{},
		Cash:      domain.CashReport{},
	}
	accountIndex := make(map[string]int)

	for _, stmt := range xmlquery.Find(doc, statementXPath) {
		accountID := stmt.SelectAttr("accountId")

		if info := stmt.SelectElement("AccountInformation"); info != nil {
			acc := toAccountInfo(accountID, attributes(info))
			if i, ok := accountIndex[accountID]; ok {
				st.Accounts[i] = acc
			} else {
				accountIndex[accountID] = len(st.Accounts)
				st.Accounts = append(st.Accounts, acc)
			}
		}

		for _, n := range xmlquery.Find(stmt, tradeXPath) {
			st.Trades = append(st.Trades, toTrade(accountID, attributes(n)))
		}

		for _, n := range xmlquery.Find(stmt, positionXPath) {
			st.Positions = append(st.Positions, toPosition(accountID, attributes(n)))
		}

		cash := make(map[string]domain.CashBalance)
		for _, n := range xmlquery.Find(stmt, cashXPath) {
			a := attributes(n)
			cash[a.strOr("currency", "USD")] = toCashBalance(a)
		}
		st.Cash[accountID] = cash
	}
	return st
}

// attrs son los atributos de un elemento. Distingue ausente de vacío.
type attrs map[string]string

func attributes(n *xmlquery.Node) attrs {
	a := make(attrs, len(n.Attr))
	for _, attr := range n.Attr {
		a[attr.Name.Local] = attr.Value
	}
	return a
}

func (a attrs) str(name string) string {
	return a[name]
}

// strOr devuelve def solo si el atributo no existe; un valor vacío se respeta.
func (a attrs) strOr(name, def string) string {
	if v, ok := a[name]; ok {
		return v
	}
	return def
}

func (a attrs) float(name string) float64 {
	return parseFloatOr(a[name], 0)
}

func (a attrs) floatOr(name string, def float64) float64 {
	return parseFloatOr(a[name], def)
}

// parseFloatOr convierte s a float64, o devuelve def si s está vacío,
// no es numérico o no es finito.
func parseFloatOr(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
