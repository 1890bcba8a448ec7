package security

import "github.com/matthewhartstonge/argon2"

// HashPassword hashes a plaintext password with Argon2id using the library
// defaults. The returned string is the self-describing encoded form.
func HashPassword(password string) (string, error) {
	cfg := argon2.DefaultConfig()

	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded Argon2 hash.
func VerifyPassword(password, hash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(hash))
}
