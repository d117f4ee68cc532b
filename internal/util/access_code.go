package util

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	accessCodeSaltLength = 16
	accessCodeHashLength = 32
	argonTime            = 1
	argonMemory          = 64 * 1024
	argonThreads         = 4
)

// AccessCodeGate holds an argon2id digest of the admin access code so the
// plaintext never lives past process start.
type AccessCodeGate struct {
	salt []byte
	hash []byte
}

func NewAccessCodeGate(code string) (*AccessCodeGate, error) {
	if code == "" {
		return nil, errors.New("access code cannot be empty")
	}
	salt := make([]byte, accessCodeSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	hash := argon2.IDKey([]byte(code), salt, argonTime, argonMemory, argonThreads, accessCodeHashLength)
	return &AccessCodeGate{salt: salt, hash: hash}, nil
}

// Verify reports whether the candidate matches the configured access code.
func (g *AccessCodeGate) Verify(candidate string) bool {
	if g == nil {
		return false
	}
	hash := argon2.IDKey([]byte(candidate), g.salt, argonTime, argonMemory, argonThreads, accessCodeHashLength)
	return subtle.ConstantTimeCompare(hash, g.hash) == 1
}
