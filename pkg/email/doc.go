// Package email sends transactional mail through Postmark, with a
// development sender that writes messages to disk instead.
//
// The billing layer uses it for dunning notices when an invoice payment
// fails; delivery failures are never allowed to fail the triggering
// operation, only to be logged by the caller.
package email
