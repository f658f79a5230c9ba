package service

import (
	"context"
	"testing"

	"backend/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCurrencies(t *testing.T) {
	svc := NewCurrencyService()

	currencies := svc.ListCurrencies(context.Background())
	require.Len(t, currencies, 5)

	codes := make([]string, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, c.Code)
	}
	// XOF first, fixed order.
	assert.Equal(t, []string{"XOF", "EUR", "USD", "GBP", "MAD"}, codes)
	assert.True(t, currencies[0].RateToXOF.Equal(decimal.NewFromInt(1)))
}

func TestConvert(t *testing.T) {
	svc := NewCurrencyService()
	ctx := context.Background()

	eurToXOF, err := svc.Convert(ctx, decimal.NewFromInt(100), "EUR", "XOF")
	require.NoError(t, err)
	assert.True(t, eurToXOF.Equal(decimal.RequireFromString("65595.7")), "got %s", eurToXOF)

	// Same currency passes through unchanged.
	same, err := svc.Convert(ctx, decimal.RequireFromString("123.456"), "USD", "USD")
	require.NoError(t, err)
	assert.True(t, same.Equal(decimal.RequireFromString("123.456")))

	// XOF -> EUR rounds to 4 places.
	xofToEUR, err := svc.Convert(ctx, decimal.NewFromInt(655957), "XOF", "EUR")
	require.NoError(t, err)
	assert.True(t, xofToEUR.Equal(decimal.NewFromInt(1000)), "got %s", xofToEUR)
}

func TestConvert_UnknownCurrency(t *testing.T) {
	svc := NewCurrencyService()
	ctx := context.Background()

	_, err := svc.Convert(ctx, decimal.NewFromInt(1), "BTC", "XOF")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))

	_, err = svc.Convert(ctx, decimal.NewFromInt(1), "XOF", "BTC")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
}

func TestFormat(t *testing.T) {
	svc := NewCurrencyService()
	ctx := context.Background()

	// FCFA prices are written without decimals.
	xof, err := svc.Format(ctx, decimal.RequireFromString("1500000.4"), "XOF")
	require.NoError(t, err)
	assert.Equal(t, "1500000 FCFA", xof)

	eur, err := svc.Format(ctx, decimal.RequireFromString("1234.5"), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "€1234.50", eur)

	_, err = svc.Format(ctx, decimal.NewFromInt(1), "BTC")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalid, apperror.KindOf(err))
}
