package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-service/config"
	"marketplace-service/internal/broker"
	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// PaymentService drives the payment sub-document through its state machine
// using Stripe payment intents.
type PaymentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	cfg            config.StripeConfig
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(st *store.Store, eventPublisher *broker.EventPublisher, cfg config.StripeConfig) *PaymentService {
	stripe.Key = cfg.SecretKey
	return &PaymentService{
		store:          st,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		logger:         util.GetLogger(),
	}
}

// IntentResult carries what the client needs to complete a payment
type IntentResult struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
}

// CreateIntent creates a Stripe payment intent for a pending order and
// moves the payment to processing.
func (ps *PaymentService) CreateIntent(ctx context.Context, order *models.Order) (*IntentResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreateIntent")
	defer span.End()

	if ps.cfg.SecretKey == "" {
		return nil, errors.New("stripe is not configured")
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrPaymentState
	}
	if !CanTransitionPayment(order.Payment.Status, models.PaymentStatusProcessing) {
		return nil, ErrPaymentState
	}

	util.PaymentAttemptsTotal.Inc()
	start := time.Now()
	defer func() {
		util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.Pricing.Total),
		Currency: stripe.String(ps.cfg.Currency),
		Metadata: map[string]string{"order_id": order.ID.Hex()},
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	payment := order.Payment
	payment.Status = models.PaymentStatusProcessing
	payment.StripeIntentID = intent.ID
	if err := ps.store.UpdateOrderPayment(ctx, order.ID, payment); err != nil {
		return nil, err
	}

	ps.logger.Info("Payment intent created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("intent_id", intent.ID))

	return &IntentResult{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       order.Pricing.Total,
	}, nil
}

// Confirm reads the intent's outcome from Stripe and settles the payment:
// success confirms the order, anything terminal marks the payment failed.
func (ps *PaymentService) Confirm(ctx context.Context, order *models.Order) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Confirm")
	defer span.End()

	if order.Payment.Status != models.PaymentStatusProcessing || order.Payment.StripeIntentID == "" {
		return nil, ErrPaymentState
	}

	intent, err := paymentintent.Get(order.Payment.StripeIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	payment := order.Payment

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		now := time.Now()
		payment.Status = models.PaymentStatusCompleted
		payment.TransactionID = intent.ID
		payment.PaidAt = &now

		if err := ps.store.UpdateOrderPayment(ctx, order.ID, payment); err != nil {
			return nil, err
		}

		util.PaymentSuccessTotal.Inc()
		ps.logger.Info("Payment completed",
			zap.String("order_id", order.ID.Hex()),
			zap.String("intent_id", intent.ID))

		event := &models.PaymentSucceededEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentSucceeded,
				Timestamp: time.Now(),
			},
			OrderID:       order.ID.Hex(),
			Amount:        payment.Amount,
			TransactionID: intent.ID,
		}
		if err := ps.eventPublisher.PublishPaymentSucceeded(ctx, event); err != nil {
			ps.logger.Error("Failed to publish PaymentSucceeded event", zap.Error(err))
		}

	case stripe.PaymentIntentStatusCanceled, stripe.PaymentIntentStatusRequiresPaymentMethod:
		payment.Status = models.PaymentStatusFailed
		payment.FailureReason = string(intent.Status)

		if err := ps.store.UpdateOrderPayment(ctx, order.ID, payment); err != nil {
			return nil, err
		}

		util.PaymentFailedTotal.Inc()
		ps.logger.Warn("Payment failed",
			zap.String("order_id", order.ID.Hex()),
			zap.String("intent_status", string(intent.Status)))

		event := &models.PaymentFailedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentFailed,
				Timestamp: time.Now(),
			},
			OrderID: order.ID.Hex(),
			Reason:  string(intent.Status),
		}
		if err := ps.eventPublisher.PublishPaymentFailed(ctx, event); err != nil {
			ps.logger.Error("Failed to publish PaymentFailed event", zap.Error(err))
		}

	default:
		// Still in flight; leave the payment processing.
	}

	return &payment, nil
}

// Refund reverses a completed payment and stamps the refund time
func (ps *PaymentService) Refund(ctx context.Context, order *models.Order) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.Refund")
	defer span.End()

	if !CanTransitionPayment(order.Payment.Status, models.PaymentStatusRefunded) {
		return ErrPaymentState
	}

	if order.Payment.StripeIntentID != "" {
		_, err := refund.New(&stripe.RefundParams{
			PaymentIntent: stripe.String(order.Payment.StripeIntentID),
		})
		if err != nil {
			return fmt.Errorf("failed to refund payment: %w", err)
		}
	}

	now := time.Now()
	payment := order.Payment
	payment.Status = models.PaymentStatusRefunded
	payment.RefundedAt = &now

	if err := ps.store.UpdateOrderPayment(ctx, order.ID, payment); err != nil {
		return err
	}

	ps.logger.Info("Payment refunded", zap.String("order_id", order.ID.Hex()))
	return nil
}
