package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/slayk/storefront-admin/internal/config"
)

func TestPaymentsDisabledWithoutKey(t *testing.T) {
	service := NewPaymentService(nil, config.PaymentConfig{Currency: "inr"})
	assert.False(t, service.Enabled())

	_, err := service.CreatePaymentIntent(context.Background(), "any")
	assert.ErrorIs(t, err, ErrPaymentsDisabled)
}

func TestMinorUnits(t *testing.T) {
	assert.EqualValues(t, 499800, minorUnits(decimal.NewFromInt(4998)))
	assert.EqualValues(t, 129950, minorUnits(decimal.RequireFromString("1299.499")))
	assert.EqualValues(t, 1, minorUnits(decimal.RequireFromString("0.005")))
}
