package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ObfuscateAccount masks an account ID, keeping the first character and the
// last two. IDs shorter than 4 characters are returned unchanged.
//
//	U1234567 → U*****67
func ObfuscateAccount(id string) string {
	r := []rune(id)
	if len(r) < 4 {
		return id
	}
	return string(r[0]) + strings.Repeat("*", len(r)-3) + string(r[len(r)-2:])
}

// ObfuscateTrades returns a copy of trades with masked account IDs.
func ObfuscateTrades(trades []Trade) []Trade {
	out := make([]Trade, len(trades))
	for i, t := range trades {
		t.AccountID = ObfuscateAccount(t.AccountID)
		out[i] = t
	}
	return out
}

// ObfuscatePositions returns a copy of positions with masked account IDs.
func ObfuscatePositions(positions []Position) []Position {
	out := make([]Position, len(positions))
	for i, p := range positions {
		p.AccountID = ObfuscateAccount(p.AccountID)
		out[i] = p
	}
	return out
}

// ObfuscateCash returns a copy of the cash report keyed by masked account IDs.
func ObfuscateCash(cash CashReport) CashReport {
	out := make(CashReport, len(cash))
	for account, byCurrency := range cash {
		out[ObfuscateAccount(account)] = byCurrency
	}
	return out
}

// ObfuscateAccounts returns a copy of accounts with masked IDs.
func ObfuscateAccounts(accounts []AccountInfo) []AccountInfo {
	out := make([]AccountInfo, len(accounts))
	for i, a := range accounts {
		a.AccountID = ObfuscateAccount(a.AccountID)
		out[i] = a
	}
	return out
}

// CostBasisFilter keeps trades whose |cost| lies in [Min, Max].
// A nil bound is unbounded.
type CostBasisFilter struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// ParseCostBound parses a filter bound. Empty or non-numeric input means
// "no bound".
func ParseCostBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Active reports whether at least one bound is set.
func (f CostBasisFilter) Active() bool {
	return f.Min != nil || f.Max != nil
}

// Allows reports whether the trade passes the filter. Bounds are inclusive.
func (f CostBasisFilter) Allows(t Trade) bool {
	cost := math.Abs(t.Cost)
	if f.Min != nil && cost < *f.Min {
		return false
	}
	if f.Max != nil && cost > *f.Max {
		return false
	}
	return true
}

// Apply returns the trades that pass the filter, preserving order.
func (f CostBasisFilter) Apply(trades []Trade) []Trade {
	if !f.Active() {
		return trades
	}
	kept := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if f.Allows(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

// String describes the filter for logs.
func (f CostBasisFilter) String() string {
	switch {
	case f.Min != nil && f.Max != nil:
		return fmt.Sprintf("cost basis $%.2f - $%.2f", *f.Min, *f.Max)
	case f.Min != nil:
		return fmt.Sprintf("cost basis >= $%.2f", *f.Min)
	case f.Max != nil:
		return fmt.Sprintf("cost basis <= $%.2f", *f.Max)
	default:
		return "none"
	}
}
