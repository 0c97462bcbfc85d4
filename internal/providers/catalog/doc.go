// Package catalog fetches the remote product catalog and maps it into
// local product records.
//
// A fetch is a single GET against the configured endpoint. The response is
// a JSON array of {id, title, price, image}; each item becomes a Product
// whose id carries the "api_" provenance prefix and whose thumbnail and
// full-size image both point at the remote image.
//
// Fetch never returns an error. Transport failures, non-2xx responses, an
// open circuit breaker and undecodable bodies all produce an empty list and
// move the Status tracker to "error". Callers treat an empty result as
// "nothing loaded".
//
// Stack:
//   - resty: request building and response handling
//   - go-retryablehttp: transport (RetryMax defaults to 0, one attempt)
//   - resilience.Breaker: stops hammering a catalog that keeps failing
//   - x/time/rate: optional client-side rate limit
//   - sonic: response decoding
package catalog
