// Package runid issues invocation identifiers for debug correlation.
package runid

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID for the current invocation
// Format: ULID (e.g., 01JB6X8Y2K9FQR4T3VWHGP5M2C)
func New() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}
