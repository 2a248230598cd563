package trackingcode

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generate returns a human-readable tracking code: the type prefix followed
// by the last 8 digits of the current unix-millisecond timestamp
// (e.g. VIC17590001). The suffix is monotonically distinguishing, not
// unique; the store's unique index is the authority and callers retry once
// on a duplicate-key error.
func Generate(prefix string) string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return prefix + millis
}

// randomSuffix returns a short random hex fragment. Informational IDs only,
// not a security token.
func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// NewTransactionID returns a disbursement transaction reference combining
// timestamp and a random suffix.
func NewTransactionID() string {
	return fmt.Sprintf("TXN%d%s", time.Now().Unix(), randomSuffix())
}

// NewUTRNumber returns an external bank transfer reference (UTR) in the same
// timestamp-plus-random scheme.
func NewUTRNumber() string {
	return fmt.Sprintf("UTR%d%s", time.Now().Unix(), randomSuffix())
}
