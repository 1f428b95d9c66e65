package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newID returns a locally-unique identifier: millisecond timestamp plus a
// random suffix. Every entity is scoped to one device's store, so no global
// uniqueness guarantee is needed.
func newID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
