package core

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a stable hash identifying cache-equivalent input,
// such as a canonical source URL. Equal inputs always produce equal
// fingerprints across processes.
func Fingerprint(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}
