package cancellation_test

import (
	"testing"
	"time"

	"orderpolicy/internal/core/domain/model/cancellation"
	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestNewCancellation(t *testing.T) {
	actor, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleCustomer)
	require.NoError(t, err)

	t.Run("creates immutable record with snapshot", func(t *testing.T) {
		c, err := cancellation.NewCancellation(
			kernel.NewUUID(), kernel.NewUUID(), actor, "changed my mind",
			order.StatusConfirmed, 90, kernel.MoneyFromFloat(3),
			testNow,
		)
		require.NoError(t, err)
		require.NoError(t, c.Validate())

		assert.Equal(t, order.StatusConfirmed, c.OrderStatusAtCancellation())
		assert.Equal(t, 90, c.RefundPercentage())
		assert.Equal(t, "3", c.PenaltyAmount().String())
		assert.Equal(t, kernel.RoleCustomer, c.InitiatorRole())
	})

	t.Run("rejects percentage outside 0..100", func(t *testing.T) {
		_, err := cancellation.NewCancellation(
			kernel.NewUUID(), kernel.NewUUID(), actor, "",
			order.StatusPending, 120, kernel.ZeroMoney(), testNow,
		)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects negative penalty", func(t *testing.T) {
		_, err := cancellation.NewCancellation(
			kernel.NewUUID(), kernel.NewUUID(), actor, "",
			order.StatusPending, 100, kernel.MoneyFromFloat(-1), testNow,
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var c cancellation.Cancellation
		require.ErrorIs(t, c.Validate(), cancellation.ErrCancellationIsNotConstructed)
	})
}

func TestNewDriverCompensation(t *testing.T) {
	t.Run("creates pending record", func(t *testing.T) {
		d, err := cancellation.NewDriverCompensation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.MoneyFromFloat(7.50), "order cancelled after pickup", testNow,
		)
		require.NoError(t, err)
		require.NoError(t, d.Validate())

		assert.Equal(t, cancellation.CompensationPending, d.Status())
		assert.Equal(t, "7.5", d.Amount().String())
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := cancellation.NewDriverCompensation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.ZeroMoney(), "", testNow,
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("mark paid exactly once", func(t *testing.T) {
		d, err := cancellation.NewDriverCompensation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.MoneyFromFloat(2.50), "", testNow,
		)
		require.NoError(t, err)

		require.NoError(t, d.MarkPaid())
		assert.Equal(t, cancellation.CompensationPaid, d.Status())
		require.ErrorIs(t, d.MarkPaid(), errs.ErrStateConflict)
	})
}
