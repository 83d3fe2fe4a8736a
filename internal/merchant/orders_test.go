package merchant

import (
	"testing"

	"raymarket-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.OrderStatus }{
		{models.OrderPending, models.OrderAccepted},
		{models.OrderPending, models.OrderCancelled},
		{models.OrderAccepted, models.OrderPreparing},
		{models.OrderAccepted, models.OrderCancelled},
		{models.OrderPreparing, models.OrderDelivering},
		{models.OrderDelivering, models.OrderCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to models.OrderStatus }{
		// No going backwards.
		{models.OrderAccepted, models.OrderPending},
		{models.OrderDelivering, models.OrderPreparing},
		// No skipping ahead.
		{models.OrderPending, models.OrderCompleted},
		{models.OrderAccepted, models.OrderDelivering},
		// Cancellation stops once preparation starts.
		{models.OrderPreparing, models.OrderCancelled},
		{models.OrderDelivering, models.OrderCancelled},
		// Terminal states stay terminal.
		{models.OrderCompleted, models.OrderPending},
		{models.OrderCancelled, models.OrderAccepted},
		// Self loops are not transitions.
		{models.OrderPending, models.OrderPending},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
