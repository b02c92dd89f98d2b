package uid

import (
	"crypto/rand"
	"encoding/hex"
)

// GameID returns a random 128-bit identifier, hex encoded.
func GameID() string {
	b := make([]byte, 16)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
