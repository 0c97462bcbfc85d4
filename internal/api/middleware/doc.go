// Package middleware provides the gallery's HTTP middleware.
//
//   - CORS: cross-origin access to the JSON API
//   - RateLimit: per-IP token bucket limiting with idle client eviction
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
