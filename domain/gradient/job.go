package gradient

import "strings"

// deriveJobID builds the deterministic jobId from a storage key so that
// re-enqueuing the same object is idempotent (spec §4.6 step 3).
func deriveJobID(storageKey string) string {
	return "gradient-" + strings.ReplaceAll(storageKey, "/", "-")
}
