package order_test

import (
	"testing"

	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.StatusPending:   {order.StatusConfirmed, order.StatusCancelled},
		order.StatusConfirmed: {order.StatusCompleted, order.StatusCancelled},
	}
	all := []order.Status{order.StatusPending, order.StatusConfirmed, order.StatusCompleted, order.StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			err := order.ValidateTransition(from, to)
			if contains(allowed[from], to) {
				require.NoError(t, err, "%s -> %s", from, to)
			} else {
				require.ErrorIs(t, err, order.ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
	require.ErrorIs(t, order.ValidateTransition(order.StatusPending, "shipped"), order.ErrInvalidInput)
}

func TestAmounts(t *testing.T) {
	sub, tax, total := order.Amounts(3, 150000, 0.11)
	require.Equal(t, 450000.0, sub)
	require.Equal(t, 49500.0, tax)
	require.Equal(t, 499500.0, total)

	sub, tax, total = order.Amounts(2, 12.345, 0.1)
	require.Equal(t, 24.69, sub)
	require.Equal(t, 2.47, tax)
	require.Equal(t, 27.16, total)
}

func contains(list []order.Status, s order.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
