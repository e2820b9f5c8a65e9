package hash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgBcrypt = "bcrypt"
	AlgArgon2 = "argon2"
)

var ErrEmptyPassword = errors.New("password is empty")

// Hasher produces salted, slow digests of plaintext passwords. Check accepts
// digests from either algorithm so the configured one can change without
// locking out existing accounts.
type Hasher struct {
	alg        string
	bcryptCost int
	argon      argon2.Config
}

func New(alg string, bcryptCost int) (*Hasher, error) {
	h := &Hasher{alg: strings.ToLower(alg), bcryptCost: bcryptCost, argon: argon2.DefaultConfig()}
	switch h.alg {
	case "", AlgBcrypt:
		h.alg = AlgBcrypt
		if h.bcryptCost == 0 {
			h.bcryptCost = bcrypt.DefaultCost
		}
		if h.bcryptCost < bcrypt.MinCost || h.bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
		}
	case AlgArgon2:
	default:
		return nil, fmt.Errorf("unknown password hasher %q", alg)
	}
	return h, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if h.alg == AlgArgon2 {
		encoded, err := h.argon.HashEncoded([]byte(password))
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func (h *Hasher) Check(digest, password string) bool {
	if digest == "" || password == "" {
		return false
	}
	if strings.HasPrefix(digest, "$argon2") {
		ok, err := argon2.VerifyEncoded([]byte(password), []byte(digest))
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
