package refund_test

import (
	"testing"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/refund"
	"orderpolicy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newPendingRefund(t *testing.T) *refund.Refund {
	t.Helper()
	r, err := refund.NewRefund(
		kernel.NewUUID(), kernel.NewUUID(), kernel.MoneyFromFloat(24.99),
		refund.TypePartial, "cold food", kernel.NewUUID(), testNow,
	)
	require.NoError(t, err)
	return r
}

func TestNewRefund(t *testing.T) {
	t.Run("creates pending refund with idempotency key", func(t *testing.T) {
		r := newPendingRefund(t)

		require.NoError(t, r.Validate())
		assert.Equal(t, refund.StatusPending, r.Status())
		assert.Equal(t, "24.99", r.Amount().String())
		assert.Contains(t, r.IdempotencyKey(), r.ID().String())
		assert.Empty(t, r.TransactionID())
		assert.Nil(t, r.ProcessedAt())
	})

	t.Run("amount is rounded to 2 decimals at creation", func(t *testing.T) {
		amount, err := kernel.MoneyFromString("10.005")
		require.NoError(t, err)

		r, err := refund.NewRefund(
			kernel.NewUUID(), kernel.NewUUID(), amount,
			refund.TypeFull, "", kernel.NewUUID(), testNow,
		)
		require.NoError(t, err)
		assert.Equal(t, "10.01", r.Amount().String())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := refund.NewRefund(
			kernel.NewUUID(), kernel.NewUUID(), kernel.ZeroMoney(),
			refund.TypeFull, "", kernel.NewUUID(), testNow,
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := refund.NewRefund(
			kernel.NewUUID(), kernel.NewUUID(), kernel.MoneyFromFloat(5),
			refund.TypeUnknown, "", kernel.NewUUID(), testNow,
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRefund_Lifecycle(t *testing.T) {
	t.Run("pending to processing to completed", func(t *testing.T) {
		r := newPendingRefund(t)

		require.NoError(t, r.StartProcessing())
		assert.Equal(t, refund.StatusProcessing, r.Status())

		require.NoError(t, r.Complete("tx-123", testNow.Add(time.Second)))
		assert.Equal(t, refund.StatusCompleted, r.Status())
		assert.Equal(t, "tx-123", r.TransactionID())
		require.NotNil(t, r.ProcessedAt())
	})

	t.Run("pending to processing to failed", func(t *testing.T) {
		r := newPendingRefund(t)

		require.NoError(t, r.StartProcessing())
		require.NoError(t, r.Fail("card declined", testNow.Add(time.Second)))

		assert.Equal(t, refund.StatusFailed, r.Status())
		assert.Equal(t, "card declined", r.FailureMessage())
	})

	t.Run("claiming a terminal refund is a state conflict", func(t *testing.T) {
		r := newPendingRefund(t)
		require.NoError(t, r.StartProcessing())
		require.NoError(t, r.Complete("tx-123", testNow))

		require.ErrorIs(t, r.StartProcessing(), errs.ErrStateConflict)
	})

	t.Run("completing without claiming is a state conflict", func(t *testing.T) {
		r := newPendingRefund(t)
		require.ErrorIs(t, r.Complete("tx-123", testNow), errs.ErrStateConflict)
	})

	t.Run("completing without a transaction id is rejected", func(t *testing.T) {
		r := newPendingRefund(t)
		require.NoError(t, r.StartProcessing())
		require.ErrorIs(t, r.Complete("", testNow), errs.ErrValueIsRequired)
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.True(t, refund.StatusCompleted.IsTerminal())
		assert.True(t, refund.StatusFailed.IsTerminal())
		assert.False(t, refund.StatusPending.IsTerminal())
		assert.False(t, refund.StatusProcessing.IsTerminal())
	})
}
