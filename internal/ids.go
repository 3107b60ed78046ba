package internal

import (
	"math/rand"
	"strconv"
	"time"
)

// NewID returns a collision-resistant record identifier: the current unix
// millisecond timestamp concatenated with a 7-character random suffix, both
// base36. Two calls in the same millisecond rely on the suffix alone, which
// is fine for human-paced panel actions.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return ts + randBase36(7)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
