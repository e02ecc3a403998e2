package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderPendingPayment, OrderPaid, true},
		{OrderPendingPayment, OrderCancelled, true},
		{OrderPendingPayment, OrderFulfilled, false},
		{OrderPendingPayment, OrderRefunded, false},

		{OrderPaid, OrderFulfilled, true},
		{OrderPaid, OrderCancelled, true},
		{OrderPaid, OrderRefunded, true},
		{OrderPaid, OrderPendingPayment, false},

		{OrderFulfilled, OrderRefunded, true},
		{OrderFulfilled, OrderCancelled, false},
		{OrderFulfilled, OrderPaid, false},

		{OrderCancelled, OrderPaid, false},
		{OrderCancelled, OrderPendingPayment, false},
		{OrderRefunded, OrderPaid, false},
		{OrderRefunded, OrderFulfilled, false},
		{OrderRefunded, OrderCancelled, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, OrderPendingPayment.IsTerminal())
	assert.False(t, OrderPaid.IsTerminal())
	assert.False(t, OrderFulfilled.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.True(t, OrderRefunded.IsTerminal())
}

func TestCanTransition_SelfLoopNeverAllowed(t *testing.T) {
	statuses := []OrderStatus{OrderPendingPayment, OrderPaid, OrderFulfilled, OrderCancelled, OrderRefunded}
	for _, s := range statuses {
		assert.False(t, s.CanTransition(s), "%s -> %s", s, s)
	}
}
