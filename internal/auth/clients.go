package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ClientRegistry verifies client credentials against bcrypt hashes loaded
// from configuration. Secrets are never stored in the clear: the config file
// carries only the hash, produced once with e.g.
//
//	htpasswd -bnBC 12 "" secret | tr -d ':\n'
//
// bcrypt's constant-time comparison makes verification safe against timing
// attacks, and the work factor makes brute-forcing a leaked hash expensive.
type ClientRegistry struct {
	hashes map[string]string // clientID -> bcrypt hash
}

// NewClientRegistry builds a registry from (clientID, secretHash) pairs.
func NewClientRegistry(clients map[string]string) *ClientRegistry {
	hashes := make(map[string]string, len(clients))
	for id, hash := range clients {
		hashes[id] = hash
	}
	return &ClientRegistry{hashes: hashes}
}

// Verify checks a client's plaintext secret against the stored hash.
// Returns nil when the credentials are valid.
func (r *ClientRegistry) Verify(clientID, secret string) error {
	hash, ok := r.hashes[clientID]
	if !ok {
		// Still burn a bcrypt comparison so unknown and known client IDs
		// are indistinguishable by response time.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			[]byte(secret))
		return fmt.Errorf("auth: unknown client %q", clientID)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return errors.New("auth: invalid client secret")
		}
		return fmt.Errorf("auth: comparing client secret: %w", err)
	}

	return nil
}

// HashSecret hashes a plaintext secret for storage in configuration.
// Exposed for provisioning tooling and tests.
func HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing secret: %w", err)
	}
	return string(hashed), nil
}
