// Package naming implements mutable pointer names over content addresses:
// publishing through an IPNS-capable IPFS node and resolution through an
// ordered list of interchangeable endpoints (IPFS HTTP APIs and DNSLink).
//
// Resolution is deliberately first-success-wins: the first endpoint returning
// a well-formed response is taken as authoritative and no conflict resolution
// across endpoints is performed. An endpoint that authoritatively reports the
// name as absent ends the attempt with ErrPointerNotFound; transport errors,
// non-2xx statuses, and malformed bodies fall through to the next endpoint.
// Only when every endpoint fails does resolution end with
// ErrResolutionExhausted.
package naming
