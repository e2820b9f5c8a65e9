package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const resetTokenBytes = 20

type ResetToken struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// GenerateReset returns a fresh token. Only Hash and ExpiresAt are meant to be
// stored; Plain goes into the emailed link and is then discarded.
func GenerateReset(now time.Time, ttl time.Duration) (ResetToken, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return ResetToken{}, err
	}
	plain := hex.EncodeToString(buf)
	return ResetToken{
		Plain:     plain,
		Hash:      HashResetToken(plain),
		ExpiresAt: now.Add(ttl),
	}, nil
}

func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
