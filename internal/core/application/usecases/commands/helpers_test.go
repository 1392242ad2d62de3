package commands_test

import (
	"testing"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/modification"
	"orderpolicy/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// Handlers stamp operations with the wall clock, so test orders are
// created a couple of minutes in the past to sit inside every status
// window the policies check.
func testCreatedAt() time.Time {
	return time.Now().UTC().Add(-2 * time.Minute)
}

func testAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress("1 Main St", "Springfield", "north")
	require.NoError(t, err)
	return addr
}

func testItem(t *testing.T, name string, price float64, quantity int) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), name, kernel.MoneyFromFloat(price), quantity)
	require.NoError(t, err)
	return item
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	return newTestOrderAt(t, testCreatedAt(), order.NewMerchantPolicy(true, true, 0, 24*60, []string{"north", "central"}))
}

func newTestOrderAt(t *testing.T, createdAt time.Time, policy order.MerchantPolicy) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]*order.Item{testItem(t, "Margherita", 10, 2)},
		order.Charges{
			DeliveryFee: kernel.MoneyFromFloat(5),
			ServiceFee:  kernel.MoneyFromFloat(2),
			Tip:         kernel.MoneyFromFloat(3),
			Discount:    kernel.MoneyFromFloat(0),
		},
		order.PaymentMethodCard,
		testAddress(t),
		policy,
		createdAt,
	)
	require.NoError(t, err)
	return o
}

func newConfirmedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newTestOrder(t)
	require.NoError(t, o.Confirm(testCreatedAt().Add(time.Minute)))
	return o
}

func newPickedUpOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newConfirmedOrder(t)
	step := testCreatedAt().Add(2 * time.Minute)
	require.NoError(t, o.StartPreparing(step))
	require.NoError(t, o.MarkReady(step.Add(time.Second)))
	require.NoError(t, o.AssignDriver(kernel.NewUUID(), step.Add(2*time.Second)))
	require.NoError(t, o.MarkPickedUp(step.Add(3*time.Second)))
	return o
}

func newDeliveredOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newPickedUpOrder(t)
	step := testCreatedAt().Add(2 * time.Minute)
	require.NoError(t, o.MarkDelivered(step.Add(4*time.Second)))
	return o
}

func testActor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

func customerOf(t *testing.T, o *order.Order) kernel.Actor {
	t.Helper()
	return testActor(t, o.CustomerID(), kernel.RoleCustomer)
}

// newPendingModification builds a modification waiting for merchant review.
func newPendingModification(t *testing.T, o *order.Order, changes []modification.Change) *modification.Modification {
	t.Helper()
	mod, err := modification.NewModification(
		kernel.NewUUID(), o.ID(), changes, o.CustomerID(),
		kernel.MoneyFromFloat(10), "customer request", true, testCreatedAt().Add(time.Minute),
	)
	require.NoError(t, err)
	return mod
}

// newApprovedModification builds a modification ready to be applied.
func newApprovedModification(t *testing.T, o *order.Order, changes []modification.Change) *modification.Modification {
	t.Helper()
	mod := newPendingModification(t, o, changes)
	require.NoError(t, mod.Approve(kernel.NewUUID(), testCreatedAt().Add(90*time.Second)))
	return mod
}
