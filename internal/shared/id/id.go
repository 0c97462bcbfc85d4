// Package id generates prefixed, time-ordered identifiers.
//
//   - Products created locally: p_<ulid>
//   - Trace and span ids: req_<ulid>
//
// Catalog products keep the remote numeric id behind the "api" prefix
// instead (see product.CatalogID), so the prefix alone tells where a
// record came from.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ProductID identifies a product record
type ProductID string

// RequestID identifies an API request or span
type RequestID string

// ID Prefixes
const (
	ProductPrefix = "p"
	RequestPrefix = "req"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns prefix_<ulid>. IDs from one process sort in creation order,
// even within the same millisecond.
func New(prefix string) string {
	mu.Lock()
	u := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	mu.Unlock()
	return prefix + "_" + u.String()
}

// NewProductID generates a new locally-created product ID
func NewProductID() ProductID {
	return ProductID(New(ProductPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(New(RequestPrefix))
}

func (id ProductID) String() string { return string(id) }
func (id RequestID) String() string { return string(id) }
