package service

import (
	"context"
	"fmt"

	"backend/pkg/apperror"

	"github.com/shopspring/decimal"
)

// CurrencyInfo describes one supported currency relative to the XOF base.
type CurrencyInfo struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Symbol    string          `json:"symbol"`
	RateToXOF decimal.Decimal `json:"rate_to_xof"` // 1 unit of this currency in XOF
}

// CurrencyService converts and formats amounts between the supported
// currencies. Rates are a static reference table with XOF as the base, not a
// live feed; they exist so project figures entered in EUR or USD can be shown
// in a common unit.
type CurrencyService interface {
	ListCurrencies(ctx context.Context) []CurrencyInfo
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
	Format(ctx context.Context, amount decimal.Decimal, code string) (string, error)
}

type currencyService struct {
	currencies map[string]CurrencyInfo
	order      []string
}

func NewCurrencyService() CurrencyService {
	table := []CurrencyInfo{
		{Code: "XOF", Name: "West African CFA franc", Symbol: "FCFA", RateToXOF: decimal.NewFromInt(1)},
		{Code: "EUR", Name: "Euro", Symbol: "€", RateToXOF: decimal.NewFromFloat(655.957)},
		{Code: "USD", Name: "US Dollar", Symbol: "$", RateToXOF: decimal.NewFromFloat(601.50)},
		{Code: "GBP", Name: "British Pound", Symbol: "£", RateToXOF: decimal.NewFromFloat(762.25)},
		{Code: "MAD", Name: "Moroccan Dirham", Symbol: "DH", RateToXOF: decimal.NewFromFloat(60.12)},
	}

	byCode := make(map[string]CurrencyInfo, len(table))
	order := make([]string, 0, len(table))
	for _, c := range table {
		byCode[c.Code] = c
		order = append(order, c.Code)
	}
	return &currencyService{currencies: byCode, order: order}
}

func (s *currencyService) ListCurrencies(_ context.Context) []CurrencyInfo {
	out := make([]CurrencyInfo, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.currencies[code])
	}
	return out
}

// Convert goes through the XOF base: amount * rate(from) / rate(to).
func (s *currencyService) Convert(_ context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromCur, ok := s.currencies[from]
	if !ok {
		return decimal.Zero, apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown currency %q", from))
	}
	toCur, ok := s.currencies[to]
	if !ok {
		return decimal.Zero, apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown currency %q", to))
	}
	if from == to {
		return amount, nil
	}
	return amount.Mul(fromCur.RateToXOF).DivRound(toCur.RateToXOF, 4), nil
}

// Format renders an amount with the currency's symbol. XOF amounts are shown
// without decimals, matching how FCFA prices are written; others keep two.
func (s *currencyService) Format(_ context.Context, amount decimal.Decimal, code string) (string, error) {
	cur, ok := s.currencies[code]
	if !ok {
		return "", apperror.New(apperror.KindInvalid, fmt.Sprintf("unknown currency %q", code))
	}
	if code == "XOF" {
		return fmt.Sprintf("%s %s", amount.Round(0).String(), cur.Symbol), nil
	}
	return fmt.Sprintf("%s%s", cur.Symbol, amount.Round(2).StringFixed(2)), nil
}
