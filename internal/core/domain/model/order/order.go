package order

import (
	"errors"
	"fmt"
	"time"

	"orderpolicy/internal/core/domain/model/kernel"
	"orderpolicy/internal/pkg/errs"
)

// MaxInstructionsLength caps delivery instructions at 500 characters.
const MaxInstructionsLength = 500

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrCannotRemoveLastItem is returned when a modification would strip the
	// order of its only line item. An order with no items is not an order;
	// the caller should cancel instead.
	ErrCannotRemoveLastItem = errors.New("cannot remove the last line item, cancel the order instead")
)

// Charges groups the non-item monetary components of an order.
type Charges struct {
	DeliveryFee kernel.Money
	ServiceFee  kernel.Money
	Tip         kernel.Money
	Discount    kernel.Money
}

// Order is the aggregate root for a placed order. It owns the line items,
// the money totals, the lifecycle state machine and the per-stage
// timestamps the policy services evaluate time windows against.
//
// Invariants:
//   - total == subtotal + delivery fee + service fee + tip − discount,
//     re-derived after every mutation
//   - refundedAmount never exceeds total
//   - status transitions follow the defined state machine
//   - at least one line item at all times
//
// All mutation goes through validated methods; direct struct construction
// fails Validate.
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	merchantID kernel.UUID
	driverID   *kernel.UUID

	status         Status
	deliveryStatus DeliveryStatus

	items []*Item

	deliveryFee    kernel.Money
	serviceFee     kernel.Money
	tip            kernel.Money
	discount       kernel.Money
	subtotal       kernel.Money
	total          kernel.Money
	refundedAmount kernel.Money

	paymentMethod PaymentMethod
	paymentStatus PaymentStatus

	address      kernel.Address
	instructions string
	scheduledAt  *time.Time
	estimatedAt  *time.Time

	createdAt   time.Time
	confirmedAt *time.Time
	preparingAt *time.Time
	readyAt     *time.Time
	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	merchantPolicy MerchantPolicy

	isConstructed bool
}

// NewOrder creates a new Order in pending status with validated inputs.
// Totals are derived from the line items and charges immediately.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	merchantID kernel.UUID,
	items []*Item,
	charges Charges,
	paymentMethod PaymentMethod,
	address kernel.Address,
	merchantPolicy MerchantPolicy,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		merchantID.Validate(),
		paymentMethod.Validate(),
		address.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}

	o := &Order{
		id:             id,
		customerID:     customerID,
		merchantID:     merchantID,
		status:         StatusPending,
		deliveryStatus: DeliveryNone,
		items:          items,
		deliveryFee:    charges.DeliveryFee,
		serviceFee:     charges.ServiceFee,
		tip:            charges.Tip,
		discount:       charges.Discount,
		refundedAmount: kernel.ZeroMoney(),
		paymentMethod:  paymentMethod,
		paymentStatus:  PaymentPending,
		address:        address,
		createdAt:      now,
		merchantPolicy: merchantPolicy,
		isConstructed:  true,
	}
	o.recalcTotals()

	return o, nil
}

// Snapshot carries every persisted field of an order for reconstruction.
// Used by the persistence adapter; application code uses NewOrder.
type Snapshot struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	MerchantID kernel.UUID
	DriverID   *kernel.UUID

	Status         Status
	DeliveryStatus DeliveryStatus

	Items []*Item

	Charges        Charges
	RefundedAmount kernel.Money

	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus

	Address      kernel.Address
	Instructions string
	ScheduledAt  *time.Time
	EstimatedAt  *time.Time

	CreatedAt   time.Time
	ConfirmedAt *time.Time
	PreparingAt *time.Time
	ReadyAt     *time.Time
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time

	MerchantPolicy MerchantPolicy
}

// RestoreOrder reconstructs an Order from persistence, re-validating the
// stored state. Totals are re-derived from the restored items and charges
// so a drifted stored total cannot survive a load.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.CustomerID.Validate(),
		s.MerchantID.Validate(),
		s.Status.Validate(),
		s.DeliveryStatus.Validate(),
		s.PaymentMethod.Validate(),
		s.PaymentStatus.Validate(),
		s.Address.Validate(),
	); err != nil {
		return nil, err
	}
	if len(s.Items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}
	if s.RefundedAmount.IsNegative() {
		return nil, errs.NewValueIsInvalidError("refunded amount")
	}

	o := &Order{
		id:             s.ID,
		customerID:     s.CustomerID,
		merchantID:     s.MerchantID,
		driverID:       s.DriverID,
		status:         s.Status,
		deliveryStatus: s.DeliveryStatus,
		items:          s.Items,
		deliveryFee:    s.Charges.DeliveryFee,
		serviceFee:     s.Charges.ServiceFee,
		tip:            s.Charges.Tip,
		discount:       s.Charges.Discount,
		refundedAmount: s.RefundedAmount,
		paymentMethod:  s.PaymentMethod,
		paymentStatus:  s.PaymentStatus,
		address:        s.Address,
		instructions:   s.Instructions,
		scheduledAt:    s.ScheduledAt,
		estimatedAt:    s.EstimatedAt,
		createdAt:      s.CreatedAt,
		confirmedAt:    s.ConfirmedAt,
		preparingAt:    s.PreparingAt,
		readyAt:        s.ReadyAt,
		assignedAt:     s.AssignedAt,
		pickedUpAt:     s.PickedUpAt,
		deliveredAt:    s.DeliveredAt,
		cancelledAt:    s.CancelledAt,
		merchantPolicy: s.MerchantPolicy,
		isConstructed:  true,
	}
	o.recalcTotals()

	if o.refundedAmount.GreaterThan(o.total) {
		return nil, errs.NewValueIsInvalidErrorWithCause("refunded amount",
			fmt.Errorf("%s exceeds order total %s", o.refundedAmount, o.total))
	}

	return o, nil
}

// Validate ensures the Order was constructed via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// MerchantID returns the merchant's identifier.
func (o *Order) MerchantID() kernel.UUID {
	return o.merchantID
}

// DriverID returns the assigned driver's identifier, or nil if unassigned.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// DeliveryStatus returns the driver's delivery progress.
func (o *Order) DeliveryStatus() DeliveryStatus {
	return o.deliveryStatus
}

// Items returns the order's line items. The returned slice is a copy;
// items are mutated only through the aggregate.
func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

// Item returns the line item for the given catalog item id, or nil.
func (o *Order) Item(itemID kernel.UUID) *Item {
	for _, it := range o.items {
		if it.itemID.IsEqual(itemID) {
			return it
		}
	}
	return nil
}

// LineCount returns the number of line items on the order.
func (o *Order) LineCount() int {
	return len(o.items)
}

// Subtotal returns the sum of the line item subtotals.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// DeliveryFee returns the delivery fee.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// ServiceFee returns the service fee.
func (o *Order) ServiceFee() kernel.Money {
	return o.serviceFee
}

// Tip returns the tip amount.
func (o *Order) Tip() kernel.Money {
	return o.tip
}

// Discount returns the applied discount.
func (o *Order) Discount() kernel.Money {
	return o.discount
}

// Total returns the order total: subtotal + fees + tip − discount.
func (o *Order) Total() kernel.Money {
	return o.total
}

// RefundedAmount returns the sum refunded so far.
func (o *Order) RefundedAmount() kernel.Money {
	return o.refundedAmount
}

// RefundableAmount returns how much money can still be refunded.
func (o *Order) RefundableAmount() kernel.Money {
	return o.total.Sub(o.refundedAmount)
}

// PaymentMethod returns the rail the order was paid on.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns the payment settlement state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Address returns the delivery address.
func (o *Order) Address() kernel.Address {
	return o.address
}

// Instructions returns the delivery instructions.
func (o *Order) Instructions() string {
	return o.instructions
}

// ScheduledAt returns the requested delivery time, or nil for ASAP orders.
func (o *Order) ScheduledAt() *time.Time {
	return o.scheduledAt
}

// EstimatedDeliveryAt returns the estimated delivery time, or nil when no
// estimate exists yet.
func (o *Order) EstimatedDeliveryAt() *time.Time {
	return o.estimatedAt
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// MerchantPolicy returns the merchant settings snapshot taken at checkout.
func (o *Order) MerchantPolicy() MerchantPolicy {
	return o.merchantPolicy
}

// StatusEnteredAt returns when the order entered the given status.
// The second return value is false when the order never reached it.
func (o *Order) StatusEnteredAt(s Status) (time.Time, bool) {
	var t *time.Time
	switch s {
	case StatusPending:
		return o.createdAt, true
	case StatusConfirmed:
		t = o.confirmedAt
	case StatusPreparing:
		t = o.preparingAt
	case StatusReady:
		t = o.readyAt
	case StatusAssigned:
		t = o.assignedAt
	case StatusPickedUp:
		t = o.pickedUpAt
	case StatusDelivered:
		t = o.deliveredAt
	case StatusCancelled:
		t = o.cancelledAt
	case StatusUnknown:
		return time.Time{}, false
	}
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// AgeAt returns how long the order has existed at the given instant.
func (o *Order) AgeAt(now time.Time) time.Duration {
	return now.Sub(o.createdAt)
}

// Confirm moves the order from pending to confirmed.
func (o *Order) Confirm(now time.Time) error {
	next, err := o.status.Advance(StatusConfirmed)
	if err != nil {
		return err
	}
	o.status = next
	o.confirmedAt = &now
	return nil
}

// StartPreparing moves the order from confirmed to preparing.
func (o *Order) StartPreparing(now time.Time) error {
	next, err := o.status.Advance(StatusPreparing)
	if err != nil {
		return err
	}
	o.status = next
	o.preparingAt = &now
	return nil
}

// MarkReady moves the order from preparing to ready.
func (o *Order) MarkReady(now time.Time) error {
	next, err := o.status.Advance(StatusReady)
	if err != nil {
		return err
	}
	o.status = next
	o.readyAt = &now
	return nil
}

// AssignDriver moves the order from ready to assigned, records the driver
// and starts delivery tracking.
func (o *Order) AssignDriver(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	next, err := o.status.Advance(StatusAssigned)
	if err != nil {
		return err
	}
	o.status = next
	o.driverID = &driverID
	o.deliveryStatus = DeliveryAssigned
	o.assignedAt = &now
	return nil
}

// MarkDriverArrivedAtPickup records the driver reaching the merchant.
func (o *Order) MarkDriverArrivedAtPickup() error {
	return o.advanceDelivery(DeliveryArrivedAtPickup)
}

// MarkPickedUp moves the order from assigned to picked_up.
func (o *Order) MarkPickedUp(now time.Time) error {
	next, err := o.status.Advance(StatusPickedUp)
	if err != nil {
		return err
	}
	if err := o.advanceDelivery(DeliveryPickedUp); err != nil {
		return err
	}
	o.status = next
	o.pickedUpAt = &now
	return nil
}

// MarkEnRoute records the driver heading to the customer.
func (o *Order) MarkEnRoute() error {
	return o.advanceDelivery(DeliveryEnRoute)
}

// MarkDriverArrived records the driver reaching the customer's address.
func (o *Order) MarkDriverArrived() error {
	return o.advanceDelivery(DeliveryArrived)
}

// MarkDelivered moves the order from picked_up to delivered. Terminal.
func (o *Order) MarkDelivered(now time.Time) error {
	next, err := o.status.Advance(StatusDelivered)
	if err != nil {
		return err
	}
	if err := o.advanceDelivery(DeliveryCompleted); err != nil {
		return err
	}
	o.status = next
	o.deliveredAt = &now
	return nil
}

// Cancel moves the order to cancelled from any non-terminal status.
// Eligibility and refund consequences are the cancellation policy's
// responsibility; the aggregate only guards the state machine.
func (o *Order) Cancel(now time.Time) error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = next
	o.cancelledAt = &now
	return nil
}

// AddItem appends a new line item and re-derives totals.
// Adding an item already on the order is rejected; use
// UpdateItemQuantity for that.
func (o *Order) AddItem(item *Item) error {
	if item == nil {
		return errs.NewValueIsRequiredError("item")
	}
	if o.Item(item.itemID) != nil {
		return errs.NewValueIsInvalidErrorWithCause("item",
			fmt.Errorf("item %s is already on the order", item.itemID))
	}
	o.items = append(o.items, item)
	o.recalcTotals()
	return nil
}

// RemoveItem removes a line item and re-derives totals. Removing the only
// remaining line item fails with ErrCannotRemoveLastItem.
func (o *Order) RemoveItem(itemID kernel.UUID) error {
	idx := -1
	for i, it := range o.items {
		if it.itemID.IsEqual(itemID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.NewObjectNotFoundError("item", itemID.String())
	}
	if len(o.items) == 1 {
		return ErrCannotRemoveLastItem
	}
	o.items = append(o.items[:idx], o.items[idx+1:]...)
	o.recalcTotals()
	return nil
}

// UpdateItemQuantity changes a line item's quantity and re-derives totals.
func (o *Order) UpdateItemQuantity(itemID kernel.UUID, quantity int) error {
	item := o.Item(itemID)
	if item == nil {
		return errs.NewObjectNotFoundError("item", itemID.String())
	}
	if err := item.setQuantity(quantity); err != nil {
		return err
	}
	o.recalcTotals()
	return nil
}

// UpdateInstructions replaces the delivery instructions,
// capped at MaxInstructionsLength characters.
func (o *Order) UpdateInstructions(instructions string) error {
	if len(instructions) > MaxInstructionsLength {
		return errs.NewValueIsOutOfRangeError("instructions length",
			len(instructions), 0, MaxInstructionsLength)
	}
	o.instructions = instructions
	return nil
}

// ChangeAddress redirects the delivery and applies the recomputed delivery
// fee for the new destination.
func (o *Order) ChangeAddress(address kernel.Address, newDeliveryFee kernel.Money) error {
	if err := address.Validate(); err != nil {
		return err
	}
	if newDeliveryFee.IsNegative() {
		return errs.NewValueIsInvalidError("delivery fee")
	}
	o.address = address
	o.deliveryFee = newDeliveryFee
	o.recalcTotals()
	return nil
}

// Reschedule sets the requested delivery time. Lead time, horizon and
// open-hours checks are the modification policy's responsibility.
func (o *Order) Reschedule(t time.Time) {
	o.scheduledAt = &t
}

// SetEstimatedDeliveryAt records the estimated delivery time.
func (o *Order) SetEstimatedDeliveryAt(t time.Time) {
	o.estimatedAt = &t
}

// MarkPaymentCompleted records the charge settling.
func (o *Order) MarkPaymentCompleted() {
	o.paymentStatus = PaymentCompleted
}

// MarkPaymentFailed records the charge failing.
func (o *Order) MarkPaymentFailed() {
	o.paymentStatus = PaymentFailed
}

// RegisterRefund adds a completed refund amount to the running refunded
// total. Fails if the amount is not positive or would push the refunded
// total past the order total.
func (o *Order) RegisterRefund(amount kernel.Money) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidError("refund amount")
	}
	newTotal := o.refundedAmount.Add(amount)
	if newTotal.GreaterThan(o.total) {
		return errs.NewValueIsOutOfRangeError("refund amount",
			amount.String(), "0", o.RefundableAmount().String())
	}
	o.refundedAmount = newTotal
	return nil
}

// recalcTotals re-derives subtotal and total from the line items and
// charges. Called after every mutation that touches money or items.
func (o *Order) recalcTotals() {
	subtotal := kernel.ZeroMoney()
	for _, it := range o.items {
		subtotal = subtotal.Add(it.Subtotal())
	}
	o.subtotal = subtotal.Round2()
	o.total = o.subtotal.
		Add(o.deliveryFee).
		Add(o.serviceFee).
		Add(o.tip).
		Sub(o.discount).
		Round2()
}

// advanceDelivery moves the delivery status forward. Backward moves are
// state conflicts: delivery progress never regresses.
func (o *Order) advanceDelivery(next DeliveryStatus) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if next <= o.deliveryStatus {
		return errs.NewStateConflictErrorWithCause("delivery", o.deliveryStatus.String(),
			fmt.Errorf("cannot move delivery back to %s", next))
	}
	o.deliveryStatus = next
	return nil
}
