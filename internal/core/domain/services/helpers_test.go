package services_test

import (
	"testing"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testAddress(t *testing.T, zone string) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress("1 Main St", "Springfield", zone)
	require.NoError(t, err)
	return addr
}

func testItem(t *testing.T, price float64, quantity int) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Margherita", kernel.MoneyFromFloat(price), quantity)
	require.NoError(t, err)
	return item
}

type orderParams struct {
	items          []*order.Item
	charges        order.Charges
	merchantPolicy order.MerchantPolicy
}

func defaultOrderParams(t *testing.T) orderParams {
	t.Helper()
	return orderParams{
		items: []*order.Item{testItem(t, 10, 2)},
		charges: order.Charges{
			DeliveryFee: kernel.MoneyFromFloat(5),
			ServiceFee:  kernel.MoneyFromFloat(2),
			Tip:         kernel.MoneyFromFloat(3),
			Discount:    kernel.MoneyFromFloat(0),
		},
		merchantPolicy: order.NewMerchantPolicy(true, true, 8*60, 22*60, []string{"north", "central"}),
	}
}

func buildOrder(t *testing.T, params orderParams) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		params.items,
		params.charges,
		order.PaymentMethodCard,
		testAddress(t, "north"),
		params.merchantPolicy,
		testNow,
	)
	require.NoError(t, err)
	return o
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	return buildOrder(t, defaultOrderParams(t))
}

// orderWithTotal builds an order whose total is exactly the given amount:
// a single line item at that price and no fees or tip.
func orderWithTotal(t *testing.T, total float64) *order.Order {
	t.Helper()
	params := defaultOrderParams(t)
	params.items = []*order.Item{testItem(t, total, 1)}
	params.charges = order.Charges{
		DeliveryFee: kernel.ZeroMoney(),
		ServiceFee:  kernel.ZeroMoney(),
		Tip:         kernel.ZeroMoney(),
		Discount:    kernel.ZeroMoney(),
	}
	return buildOrder(t, params)
}

// advanceTo walks the order forward through the lifecycle to the requested
// status, stamping each stage one minute apart.
func advanceTo(t *testing.T, o *order.Order, target order.Status) {
	t.Helper()
	step := testNow
	transitions := []struct {
		status  order.Status
		advance func(time.Time) error
	}{
		{order.StatusConfirmed, o.Confirm},
		{order.StatusPreparing, o.StartPreparing},
		{order.StatusReady, o.MarkReady},
		{order.StatusAssigned, func(now time.Time) error { return o.AssignDriver(kernel.NewUUID(), now) }},
		{order.StatusPickedUp, o.MarkPickedUp},
		{order.StatusDelivered, o.MarkDelivered},
	}
	for _, tr := range transitions {
		if o.Status() == target {
			return
		}
		step = step.Add(time.Minute)
		require.NoError(t, tr.advance(step))
	}
	require.Equal(t, target, o.Status())
}

func testActor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return actor
}
