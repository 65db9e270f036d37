// Package clamav integrates malware scanning through the clamd INSTREAM
// protocol.
//
// The pipeline consumes scanning through the Scanner interface only; this
// package provides the one concrete implementation, a TCP client for a
// clamd daemon. A transport failure is reported as an error, never as a
// clean verdict; whether to fail open is a policy decision that belongs to
// the caller, not to the transport.
package clamav
