// Package acl is the anti-corruption layer between the quote service and the
// HTTP services it talks to. Adapters here own the wire DTOs, check what comes
// back before building domain values, and turn every failure into a domain
// error so nothing above this package sees a status code.
//
// Two adapters live here:
//
//   - [PricingClient] prices requests on a remote pricing engine and
//     implements ports.PricingEngine.
//   - [FuelQuoteAPI] is a client of this service's own /api/v1, used by the
//     quotectl command and the interactive submission flow.
//
// Failures translate as follows:
//
//   - 404 → [domain.ErrNotFound]
//   - 409 → [domain.ErrConflict]
//   - 400/422 → [domain.ErrValidation], one entry per reported field
//   - 401/403 → [ErrUnauthorized]
//   - 429, 5xx, transport errors and an open circuit → [domain.ErrUnavailable]
package acl
