// Package rabbit consumes order-placed events from the commerce platform's
// fanout exchange and feeds them to the fulfillment handler.
package rabbit

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/tournevent/fulfillment/internal/fulfillment"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	// ExchangeOrderPlaced is the fanout exchange the commerce platform
	// publishes order-placed events to.
	ExchangeOrderPlaced = "order_placed"

	// QueueName is this service's private queue bound to the exchange.
	QueueName = "fulfillment_shiprocket_orders"
)

// Consumer subscribes to order-placed events and dispatches each one to the
// handler. Deliveries are acknowledged unconditionally: the handler swallows
// its own failures, and redelivering a processed order would only hit the
// idempotency guard.
type Consumer struct {
	channel *amqp091.Channel
	handler *fulfillment.Handler
	logger  *otelzap.Logger
	tag     string
}

// NewConsumer declares the queue, binds it to the order_placed fanout
// exchange and returns a consumer ready to Run.
func NewConsumer(ch *amqp091.Channel, handler *fulfillment.Handler, logger *otelzap.Logger) (*Consumer, error) {
	if err := ch.ExchangeDeclare(
		ExchangeOrderPlaced,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, err
	}

	// Fanout ignores the routing key.
	if err := ch.QueueBind(q.Name, "", ExchangeOrderPlaced, false, nil); err != nil {
		return nil, err
	}

	return &Consumer{
		channel: ch,
		handler: handler,
		logger:  logger,
		tag:     "fulfillment-" + uuid.New().String()[:8],
	}, nil
}

// Run consumes deliveries until the context is cancelled or the channel
// closes.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(
		QueueName,
		c.tag,
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	c.logger.Info("Consuming order events",
		zap.String("exchange", ExchangeOrderPlaced),
		zap.String("queue", QueueName),
		zap.String("consumer_tag", c.tag),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping event consumer")
			return c.channel.Cancel(c.tag, false)
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("Delivery channel closed")
				return amqp091.ErrClosed
			}
			c.handle(ctx, d.Body)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) {
	orderID := ExtractOrderID(body)
	if orderID == "" {
		c.logger.Warn("Order event without order id", zap.ByteString("body", body))
	}

	outcome := c.handler.HandleOrderPlaced(ctx, orderID)
	c.logger.Info("Order event handled",
		zap.String("order_id", orderID),
		zap.String("outcome", string(outcome)),
	)
}

// ExtractOrderID pulls an order identifier out of an event envelope. Event
// payloads vary across publishers: the id may live at the top level, under
// data, or under message, and may arrive as a string or a number.
func ExtractOrderID(body []byte) string {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if id := idFromMap(envelope); id != "" {
		return id
	}
	for _, nested := range []string{"data", "message"} {
		if m, ok := envelope[nested].(map[string]any); ok {
			if id := idFromMap(m); id != "" {
				return id
			}
		}
	}
	return ""
}

func idFromMap(m map[string]any) string {
	for _, key := range []string{"id", "order_id", "orderId"} {
		if id := stringifyID(m[key]); id != "" {
			return id
		}
	}
	return ""
}

func stringifyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
