package security

import (
	"fmt"

	"github.com/matthewhartstonge/argon2"
)

var argonConfig = argon2.DefaultConfig()

// HashPassword returns the salted argon2id hash of password in its encoded form.
func HashPassword(password string) (string, error) {
	encoded, err := argonConfig.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}

	return ok, nil
}
