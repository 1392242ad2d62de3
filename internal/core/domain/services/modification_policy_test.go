package services_test

import (
	"testing"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/domain/model/order"
	"orderpolicy/internal/core/domain/services"
	"orderpolicy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModificationPolicy_CanModify(t *testing.T) {
	policy := services.NewModificationPolicy()

	t.Run("pending orders accept modifications without a window", func(t *testing.T) {
		o := newTestOrder(t)

		decision, err := policy.CanModify(o, testNow.Add(3*time.Hour))
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("late stages refuse all modifications", func(t *testing.T) {
		for _, target := range []order.Status{
			order.StatusAssigned, order.StatusPickedUp, order.StatusDelivered,
		} {
			t.Run(target.String(), func(t *testing.T) {
				o := newTestOrder(t)
				advanceTo(t, o, target)

				decision, err := policy.CanModify(o, testNow.Add(10*time.Minute))
				require.NoError(t, err)
				assert.False(t, decision.Allowed)
				assert.NotEmpty(t, decision.Reason)
			})
		}
	})

	t.Run("cancelled orders refuse all modifications", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(testNow.Add(time.Minute)))

		decision, err := policy.CanModify(o, testNow.Add(2*time.Minute))
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("confirmed window expires after ten minutes", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Confirm(testNow))

		decision, err := policy.CanModify(o, testNow.Add(9*time.Minute))
		require.NoError(t, err)
		assert.True(t, decision.Allowed)

		decision, err = policy.CanModify(o, testNow.Add(11*time.Minute))
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "window")
	})

	t.Run("merchant settings can disable modifications", func(t *testing.T) {
		params := defaultOrderParams(t)
		params.merchantPolicy = order.NewMerchantPolicy(false, true, 8*60, 22*60, []string{"north"})
		o := buildOrder(t, params)

		decision, err := policy.CanModify(o, testNow)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "merchant")
	})
}

func TestModificationPolicy_ValidateChange(t *testing.T) {
	policy := services.NewModificationPolicy()

	t.Run("type not allowed for the current status", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, order.StatusPreparing)

		_, err := policy.ValidateChange(o, modification.RemoveItem{
			ItemID: o.Items()[0].ItemID(),
		}, testNow.Add(3*time.Minute))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("instructions survive into ready status", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, order.StatusReady)

		warnings, err := policy.ValidateChange(o, modification.UpdateInstructions{
			Instructions: "leave at the door",
		}, testNow.Add(10*time.Minute))
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("removing the last line item is refused", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := policy.ValidateChange(o, modification.RemoveItem{
			ItemID: o.Items()[0].ItemID(),
		}, testNow)
		require.ErrorIs(t, err, order.ErrCannotRemoveLastItem)
	})

	t.Run("adding a duplicate item is refused", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := policy.ValidateChange(o, modification.AddItem{
			ItemID:    o.Items()[0].ItemID(),
			Name:      "Margherita",
			UnitPrice: kernel.MoneyFromFloat(10),
			Quantity:  1,
		}, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("updating an unknown item is not found", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := policy.ValidateChange(o, modification.UpdateQuantity{
			ItemID:   kernel.NewUUID(),
			Quantity: 3,
		}, testNow)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("address change outside the merchant's zones", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := policy.ValidateChange(o, modification.ChangeAddress{
			Address:        testAddress(t, "harbor"),
			NewDeliveryFee: kernel.MoneyFromFloat(5),
		}, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("address change warns about a fee difference", func(t *testing.T) {
		o := newTestOrder(t)

		warnings, err := policy.ValidateChange(o, modification.ChangeAddress{
			Address:        testAddress(t, "central"),
			NewDeliveryFee: kernel.MoneyFromFloat(8),
		}, testNow)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "delivery fee")
	})

	t.Run("instructions over the length cap", func(t *testing.T) {
		o := newTestOrder(t)
		long := make([]byte, order.MaxInstructionsLength+1)
		for i := range long {
			long[i] = 'x'
		}

		_, err := policy.ValidateChange(o, modification.UpdateInstructions{
			Instructions: string(long),
		}, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("time change needs thirty minutes' notice", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := policy.ValidateChange(o, modification.ChangeTime{
			NewTime: testNow.Add(20 * time.Minute),
		}, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("time change capped at seven days", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := policy.ValidateChange(o, modification.ChangeTime{
			NewTime: testNow.Add(8 * 24 * time.Hour),
		}, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("time change must fall within opening hours", func(t *testing.T) {
		o := newTestOrder(t)

		// 23:00, merchant closes at 22:00
		_, err := policy.ValidateChange(o, modification.ChangeTime{
			NewTime: testNow.Add(11 * time.Hour),
		}, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("valid time change within hours", func(t *testing.T) {
		o := newTestOrder(t)

		warnings, err := policy.ValidateChange(o, modification.ChangeTime{
			NewTime: testNow.Add(2 * time.Hour),
		}, testNow)
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})
}

func TestModificationPolicy_RequiresApproval(t *testing.T) {
	policy := services.NewModificationPolicy()

	t.Run("large price impact forces review", func(t *testing.T) {
		// 12.00 x 2 on a 60.00 order is a 40% swing.
		o := orderWithTotal(t, 60)
		require.NoError(t, o.Confirm(testNow))

		changes := []modification.Change{modification.AddItem{
			ItemID:    kernel.NewUUID(),
			Name:      "Tiramisu",
			UnitPrice: kernel.MoneyFromFloat(12),
			Quantity:  2,
		}}

		assert.True(t, policy.RequiresApproval(o, changes, kernel.MoneyFromFloat(24), testNow))
	})

	t.Run("small impact on a pending order applies directly", func(t *testing.T) {
		o := orderWithTotal(t, 60)

		changes := []modification.Change{modification.UpdateInstructions{Instructions: "ring twice"}}

		assert.False(t, policy.RequiresApproval(o, changes, kernel.ZeroMoney(), testNow))
	})

	t.Run("negative impact counts by magnitude", func(t *testing.T) {
		o := orderWithTotal(t, 100)

		changes := []modification.Change{modification.RemoveItem{ItemID: kernel.NewUUID()}}

		assert.True(t, policy.RequiresApproval(o, changes, kernel.MoneyFromFloat(-30), testNow))
		assert.False(t, policy.RequiresApproval(o, changes, kernel.MoneyFromFloat(-15), testNow))
	})

	t.Run("preparing and ready always require review", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, order.StatusPreparing)

		changes := []modification.Change{modification.UpdateInstructions{Instructions: "no onions"}}

		assert.True(t, policy.RequiresApproval(o, changes, kernel.ZeroMoney(), testNow))
	})

	t.Run("address change after confirmation requires review", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Confirm(testNow))

		changes := []modification.Change{modification.ChangeAddress{
			Address:        testAddress(t, "central"),
			NewDeliveryFee: kernel.MoneyFromFloat(5),
		}}

		assert.True(t, policy.RequiresApproval(o, changes, kernel.ZeroMoney(), testNow))
	})

	t.Run("address change on a pending order applies directly", func(t *testing.T) {
		o := newTestOrder(t)

		changes := []modification.Change{modification.ChangeAddress{
			Address:        testAddress(t, "central"),
			NewDeliveryFee: kernel.MoneyFromFloat(5),
		}}

		assert.False(t, policy.RequiresApproval(o, changes, kernel.ZeroMoney(), testNow))
	})

	t.Run("status flag is a ceiling, not the per-request decision", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Confirm(testNow))

		opts, err := policy.OptionsFor(o, testNow.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, opts.NeedsApproval, "confirmed orders may need review")

		// A small in-window change on the same order still skips review.
		changes := []modification.Change{modification.UpdateInstructions{Instructions: "ring twice"}}
		assert.False(t, policy.RequiresApproval(o, changes, kernel.ZeroMoney(), testNow.Add(time.Minute)))
	})

	t.Run("short-notice time change requires review", func(t *testing.T) {
		o := newTestOrder(t)

		changes := []modification.Change{modification.ChangeTime{
			NewTime: testNow.Add(20 * time.Minute),
		}}

		assert.True(t, policy.RequiresApproval(o, changes, kernel.ZeroMoney(), testNow))
	})
}

func TestModificationPolicy_OptionsFor(t *testing.T) {
	policy := services.NewModificationPolicy()

	t.Run("pending orders allow every change kind without a window", func(t *testing.T) {
		o := newTestOrder(t)

		opts, err := policy.OptionsFor(o, testNow.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, opts.Allowed)
		assert.Len(t, opts.AllowedTypes, 6)
		assert.Nil(t, opts.WindowRemaining)
		assert.False(t, opts.NeedsApproval)
	})

	t.Run("confirmed orders report the remaining window and approval", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Confirm(testNow))

		opts, err := policy.OptionsFor(o, testNow.Add(4*time.Minute))
		require.NoError(t, err)
		assert.True(t, opts.Allowed)
		assert.True(t, opts.NeedsApproval)
		require.NotNil(t, opts.WindowRemaining)
		assert.Equal(t, 6*time.Minute, *opts.WindowRemaining)
		assert.NotContains(t, opts.AllowedTypes, modification.ChangeTypeChangeAddress)
	})

	t.Run("delivered orders only carry a refusal reason", func(t *testing.T) {
		o := newTestOrder(t)
		advanceTo(t, o, order.StatusDelivered)

		opts, err := policy.OptionsFor(o, testNow.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, opts.Allowed)
		assert.NotEmpty(t, opts.Reason)
		assert.Empty(t, opts.AllowedTypes)
	})
}
