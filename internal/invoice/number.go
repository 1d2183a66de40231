package invoice

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

// NewNumber returns INV-YYYYMMDD-HHMMSS-mmm-RRRR for the given instant.
func NewNumber(now time.Time) string {
	return newNumber(now, rand.Reader)
}

func newNumber(now time.Time, entropy io.Reader) string {
	now = now.UTC()
	millis := now.Nanosecond() / int(time.Millisecond)

	n, err := rand.Int(entropy, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("INV-%s-%03d-%04d", now.Format("20060102-150405"), millis, n.Int64())
}
