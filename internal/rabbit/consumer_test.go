package rabbit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/fulfillment/internal/rabbit"
)

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"top-level id", `{"id":"order_1"}`, "order_1"},
		{"top-level order_id", `{"order_id":"order_2"}`, "order_2"},
		{"id wins over order_id", `{"id":"order_1","order_id":"order_2"}`, "order_1"},
		{"nested under data", `{"data":{"id":"order_3"}}`, "order_3"},
		{"nested order_id under data", `{"data":{"order_id":"order_4"}}`, "order_4"},
		{"nested under message", `{"message":{"orderId":"order_5"}}`, "order_5"},
		{"numeric id", `{"order_id":42}`, "42"},
		{"numeric id keeps precision", `{"order_id":4242.5}`, "4242.5"},
		{"empty string ignored", `{"id":"","order_id":"order_6"}`, "order_6"},
		{"no id anywhere", `{"event":"order.placed"}`, ""},
		{"null id", `{"id":null}`, ""},
		{"not json", `order_1`, ""},
		{"array body", `["order_1"]`, ""},
		{"data not an object", `{"data":"order_1"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rabbit.ExtractOrderID([]byte(tt.body)))
		})
	}
}
