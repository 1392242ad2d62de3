// Package order provides domain entities and business logic for placed
// orders. It implements the Order aggregate root with lifecycle management,
// line items, money totals and state transitions.
//
// The package includes:
//   - Order: The aggregate root that owns items, totals, timestamps and lifecycle
//   - Status: A state machine over pending -> confirmed -> preparing -> ready ->
//     assigned -> picked_up -> delivered with cancelled reachable from every
//     non-terminal state
//   - DeliveryStatus: The driver's progress, tracked independently
//   - Item, Charges, MerchantPolicy: supporting value objects
//
// Key business rules:
//   - total == subtotal + delivery fee + service fee + tip - discount after
//     every mutation
//   - refundedAmount never exceeds total
//   - an order always keeps at least one line item; the last item cannot be
//     removed, the order must be cancelled instead
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
