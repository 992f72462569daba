// Package fulfillment drives an order from its placed event to a linked
// carrier order.
package fulfillment

import (
	"context"
	"time"

	"github.com/tournevent/fulfillment/internal/orders"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/shiprocket"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Outcome is the terminal state of one order-placed handling attempt.
// The handler always returns an outcome and never lets a failure escape to
// the event dispatcher.
type Outcome string

const (
	// OutcomeLinked means the order was submitted and the carrier id written back.
	OutcomeLinked Outcome = "linked"

	// OutcomeAlreadyLinked means the order already carried a carrier id.
	OutcomeAlreadyLinked Outcome = "already_linked"

	// OutcomeSkipped means the event carried no usable order identifier.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means the attempt failed; details are in the log.
	OutcomeFailed Outcome = "failed"
)

// Handler resolves a placed order, checks idempotency, normalizes, submits,
// and writes the carrier identifier back onto the order.
type Handler struct {
	store   orders.Store
	client  *shiprocket.Client
	logger  *otelzap.Logger
	metrics *telemetry.Metrics

	// flight collapses simultaneous duplicate deliveries for one order
	// into a single submission.
	flight singleflight.Group
}

// NewHandler creates an event handler.
func NewHandler(store orders.Store, client *shiprocket.Client, logger *otelzap.Logger, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		store:   store,
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// HandleOrderPlaced processes one order-placed event. It is safe to call
// concurrently and on redelivered events: a linked order is never submitted
// twice sequentially, and racing deliveries for the same order share a
// single run.
func (h *Handler) HandleOrderPlaced(ctx context.Context, orderID string) Outcome {
	start := time.Now()

	if orderID == "" {
		// Some events carry incomplete payloads by design; tolerate them.
		h.logger.Warn("Order event missing order id")
		h.metrics.RecordSubmission("event", string(OutcomeSkipped), time.Since(start).Seconds())
		return OutcomeSkipped
	}

	v, _, _ := h.flight.Do(orderID, func() (any, error) {
		return h.process(ctx, orderID), nil
	})
	outcome := v.(Outcome)

	h.metrics.RecordSubmission("event", string(outcome), time.Since(start).Seconds())
	return outcome
}

func (h *Handler) process(ctx context.Context, orderID string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic while handling order event",
				zap.String("order_id", orderID),
				zap.Any("panic", r),
			)
			outcome = OutcomeFailed
		}
	}()

	order, err := h.store.Get(ctx, orderID)
	if err != nil {
		h.logger.Error("Failed to resolve order",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return OutcomeFailed
	}

	if id := order.CarrierOrderID(); id != nil {
		h.logger.Info("Order already linked to carrier, skipping",
			zap.String("order_id", orderID),
			zap.Any("carrier_order_id", id),
		)
		return OutcomeAlreadyLinked
	}

	payload, err := h.client.BuildPayload(order.View())
	if err != nil {
		h.logger.Error("Failed to normalize order",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		h.metrics.RecordError(string(shiprocket.ErrorKind(err)))
		return OutcomeFailed
	}

	result, err := h.client.SubmitOrder(ctx, payload)
	if err != nil {
		h.logger.Error("Carrier submission failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		h.metrics.RecordError(string(shiprocket.ErrorKind(err)))
		return OutcomeFailed
	}

	// Best effort: the carrier order already exists, so a failed write-back
	// must not fail the handling. Escalating here would invite retries
	// that create duplicate carrier orders.
	if err := h.store.SetCarrierOrderID(ctx, order.ID, result.CarrierOrderID); err != nil {
		h.logger.Warn("Failed to write carrier order id back onto order",
			zap.String("order_id", orderID),
			zap.Any("carrier_order_id", result.CarrierOrderID),
			zap.Error(err),
		)
		h.metrics.RecordError(string(shiprocket.KindMetadataWrite))
	}

	h.logger.Info("Order linked to carrier",
		zap.String("order_id", orderID),
		zap.Any("carrier_order_id", result.CarrierOrderID),
		zap.Any("shipment_id", result.ShipmentID),
	)
	return OutcomeLinked
}
