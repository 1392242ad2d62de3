// Package kernel provides core domain primitives for the order policy engine.
// It implements fundamental building blocks following Domain-Driven Design
// principles that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - Money: An exact-decimal monetary amount with 2-decimal rounding for financial results
//   - Address: A delivery destination with zone membership for policy checks
//   - Actor: An authenticated principal together with its explicit role
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
package kernel
