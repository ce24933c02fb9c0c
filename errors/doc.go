// Package errors defines the error taxonomy for the JSON registration cache.
//
// Every failure surfaced by this module belongs to exactly one of four
// classes:
//
//   - ConfigurationError: invalid construction parameters, detected locally
//     before any store connection is attempted. Not retryable.
//   - ConnectionError: store or transport failure, during pool creation or
//     during a query. Potentially transient; callers may retry externally.
//   - InvalidResponseError: the store responded, but the response shape
//     violates the contract (wrong row count, no rows where exactly one was
//     expected). Indicates a constraint violation or adapter bug.
//   - CanonicalisationError: the input value is not a valid JSON value or
//     contains a cycle.
//
// Nothing inside the module retries on any of these; all four are terminal
// to the operation that raised them. Use the IsX helpers to classify wrapped
// errors.
package errors
