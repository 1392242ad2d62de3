// Package services provides domain services that implement the policy and
// calculation rules spanning the order aggregate and its child records.
//
// The package includes:
//   - ModificationPolicy: decides whether, and how, an order may be modified
//   - PriceCalculator: computes the signed monetary delta of a change
//   - CancellationPolicy: resolves refund percentage, penalties and eligibility
//   - CompensationCalculator: computes the driver payout for a cancelled delivery
//
// All services are stateless and side-effect free: they read the order
// snapshot handed to them and return a decision, leaving persistence and
// dispatch to the application layer.
package services
