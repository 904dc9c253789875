package auth

import "golang.org/x/crypto/bcrypt"

// Bounds for the bcrypt cost factor. The upper bound keeps hashing latency
// from starving the service under concurrent signup/login load.
const (
	MinPasswordCost     = bcrypt.MinCost
	MaxPasswordCost     = 14
	DefaultPasswordCost = bcrypt.DefaultCost
)

// ClampPasswordCost forces cost into the supported range.
func ClampPasswordCost(cost int) int {
	if cost < MinPasswordCost {
		return DefaultPasswordCost
	}
	if cost > MaxPasswordCost {
		return MaxPasswordCost
	}
	return cost
}

// HashPassword produces a bcrypt digest of plaintext. bcrypt generates a
// fresh salt per call and embeds salt and cost in the digest, so two hashes
// of the same plaintext differ yet both verify.
func HashPassword(plaintext string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), ClampPasswordCost(cost))
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches the bcrypt digest.
// Malformed digests are treated as a mismatch, never an error; the
// comparison itself is constant-time inside bcrypt.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
