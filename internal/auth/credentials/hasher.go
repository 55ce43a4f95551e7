package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	HashVersionArgon2id = "argon2id"

	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

var ErrMalformedHash = errors.New("credentials: malformed password hash")

// HashPassword hashes a plaintext password with argon2id and encodes it in
// the standard PHC string format.
func HashPassword(password string) (hash string, version string, err error) {
	if len(password) < 8 {
		return "", "", errors.New("password too short")
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		argonTime,
		argonMemory,
		argonThreads,
		argonKeyLen,
	)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, HashVersionArgon2id, nil
}

// VerifyPassword compares a plaintext password with a stored PHC-encoded
// argon2id hash. The comparison of derived keys is constant-time.
func VerifyPassword(hash string, password string) error {
	salt, key, params, err := decodeHash(hash)
	if err != nil {
		return err
	}

	candidate := argon2.IDKey(
		[]byte(password),
		salt,
		params.time,
		params.memory,
		params.threads,
		uint32(len(key)),
	)

	if subtle.ConstantTimeCompare(key, candidate) != 1 {
		return errors.New("credentials: password mismatch")
	}

	return nil
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decodeHash(hash string) (salt, key []byte, params argonParams, err error) {
	parts := strings.Split(hash, "$")
	// "", "argon2id", "v=19", "m=...,t=...,p=...", salt, key
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, params, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, ErrMalformedHash
	}
	if version != argon2.Version {
		return nil, nil, params, ErrMalformedHash
	}

	if _, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&params.memory,
		&params.time,
		&params.threads,
	); err != nil {
		return nil, nil, params, ErrMalformedHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, ErrMalformedHash
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, ErrMalformedHash
	}

	return salt, key, params, nil
}
