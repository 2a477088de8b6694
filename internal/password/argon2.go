// Package password hashes secrets with argon2id. Encoded hashes carry their
// own parameters and salt, so verification needs nothing but the hash.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/auth-server/internal/model"
)

var (
	ErrInvalidHash   = errors.New("invalid password hash")
	ErrEmptyPassword = errors.New("password must not be empty")
)

const (
	saltLen = 16
	keyLen  = 32
)

// KDFParams are the argon2id cost parameters.
type KDFParams struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// DefaultKDFParams matches the cost used when nothing is configured.
func DefaultKDFParams() KDFParams {
	return KDFParams{Time: 3, MemKiB: 64 * 1024, Par: 2}
}

var _ model.Hasher = (*Argon2)(nil)

// Argon2 implements model.Hasher.
type Argon2 struct {
	params KDFParams
}

// NewArgon2 creates a hasher. Zero fields fall back to DefaultKDFParams.
func NewArgon2(params KDFParams) *Argon2 {
	def := DefaultKDFParams()
	if params.Time == 0 {
		params.Time = def.Time
	}
	if params.MemKiB == 0 {
		params.MemKiB = def.MemKiB
	}
	if params.Par == 0 {
		params.Par = def.Par
	}
	return &Argon2{params: params}
}

// Hash returns an encoded argon2id hash of plaintext.
func (a *Argon2) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, a.params.Time, a.params.MemKiB, a.params.Par, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.params.MemKiB,
		a.params.Time,
		a.params.Par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches encoded. A malformed hash is an
// error, a mismatch is not.
func (a *Argon2) Verify(encoded, plaintext string) (bool, error) {
	params, salt, expected, err := decode(encoded)
	if err != nil {
		return false, err
	}

	actual := argon2.IDKey([]byte(plaintext), salt, params.Time, params.MemKiB, params.Par, uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1, nil
}

func decode(encoded string) (KDFParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return KDFParams{}, nil, nil, ErrInvalidHash
	}

	version, err := parseField(parts[2], "v=", 32)
	if err != nil || version != argon2.Version {
		return KDFParams{}, nil, nil, ErrInvalidHash
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return KDFParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return KDFParams{}, nil, nil, ErrInvalidHash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return KDFParams{}, nil, nil, ErrInvalidHash
	}

	return params, salt, key, nil
}

func parseParams(value string) (KDFParams, error) {
	fields := strings.Split(value, ",")
	if len(fields) != 3 {
		return KDFParams{}, ErrInvalidHash
	}

	mem, err := parseField(fields[0], "m=", 32)
	if err != nil {
		return KDFParams{}, err
	}
	t, err := parseField(fields[1], "t=", 32)
	if err != nil {
		return KDFParams{}, err
	}
	p, err := parseField(fields[2], "p=", 8)
	if err != nil {
		return KDFParams{}, err
	}
	if mem == 0 || t == 0 || p == 0 {
		return KDFParams{}, ErrInvalidHash
	}

	return KDFParams{Time: uint32(t), MemKiB: uint32(mem), Par: uint8(p)}, nil
}

func parseField(value, prefix string, bits int) (uint64, error) {
	if !strings.HasPrefix(value, prefix) {
		return 0, ErrInvalidHash
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(value, prefix), 10, bits)
	if err != nil {
		return 0, ErrInvalidHash
	}
	return n, nil
}
