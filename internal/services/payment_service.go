// internal/services/payment_service.go
package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/config"
	"github.com/slayk/storefront-admin/internal/models"
)

// PaymentService starts card payments for placed orders through Stripe
// PaymentIntents.
type PaymentService struct {
	db     *gorm.DB
	cfg    config.PaymentConfig
	stripe *client.API
}

type PaymentIntentResponse struct {
	OrderID      string `json:"order_id"`
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

func NewPaymentService(db *gorm.DB, cfg config.PaymentConfig) *PaymentService {
	service := &PaymentService{db: db, cfg: cfg}
	if cfg.StripeSecretKey != "" {
		service.stripe = &client.API{}
		service.stripe.Init(cfg.StripeSecretKey, nil)
	}
	return service
}

func (s *PaymentService) Enabled() bool {
	return s.stripe != nil
}

// minorUnits converts an amount to the smallest currency unit (paise for INR).
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// CreatePaymentIntent returns the order's PaymentIntent, creating it on first
// use and recording its id on the order.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, orderID string) (*PaymentIntentResponse, error) {
	if !s.Enabled() {
		return nil, ErrPaymentsDisabled
	}

	order, err := findOrder(s.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentReference != nil && *order.PaymentReference != "" {
		params := &stripe.PaymentIntentParams{}
		params.Context = ctx
		pi, err := s.stripe.PaymentIntents.Get(*order.PaymentReference, params)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
		}
		return intentResponse(order, pi), nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(order.Total)),
		Currency: stripe.String(s.cfg.Currency),
	}
	params.Context = ctx
	params.SetIdempotencyKey("order-" + order.ID)
	params.AddMetadata("order_id", order.ID)
	params.AddMetadata("order_number", order.OrderNumber)

	pi, err := s.stripe.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"payment_reference": pi.ID,
			"updated_at":        s.db.NowFunc(),
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment reference: %w", err)
	}

	return intentResponse(order, pi), nil
}

func intentResponse(order *models.Order, pi *stripe.PaymentIntent) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		OrderID:      order.ID,
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
}
