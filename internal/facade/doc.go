// Package facade is the public call surface over one registry.
//
// Every call resolves the registry's active instance and forwards to it
// unchanged: no coordinate validation, caching or retry. Failures, "no
// active instance" included, go through the registry's failure policy.
// Self-checks are the exception to error propagation: a failed check is
// reported as false rather than as an error.
package facade
