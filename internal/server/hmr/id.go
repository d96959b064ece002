package hmr

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// DefaultModuleID hashes a module path into a compact, stable client-facing
// id. Stability across a connection's lifetime is what clients depend on;
// stability across server restarts is not promised.
func DefaultModuleID(path string) string {
	return strconv.FormatUint(xxhash.Sum64String(path), 16)
}
