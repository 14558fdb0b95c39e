package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing errors.
var (
	ErrInvalidHashFormat = errors.New("invalid encoded hash format")
	ErrPasswordMismatch  = errors.New("password does not match hash")
)

// PBKDF2 parameters for new hashes. Existing hashes carry their own
// iteration count and salt inside the encoded string, so these can be
// raised later without invalidating stored credentials.
const (
	pbkdf2Iterations = 29000
	pbkdf2SaltLength = 16
	pbkdf2KeyLength  = 32
)

// PasswordHasher defines the interface for hashing and verifying passwords.
type PasswordHasher interface {
	// Hash computes a one-way salted hash of the given plaintext password.
	// The returned string embeds the algorithm parameters and salt.
	Hash(password string) (string, error)

	// Compare compares an encoded hash with its possible plaintext
	// equivalent. Returns nil on success, or an error on failure
	// (e.g., mismatch or malformed hash).
	Compare(encodedHash, password string) error
}

// PBKDF2Hasher implements PasswordHasher using PBKDF2 with SHA-256.
type PBKDF2Hasher struct{}

// NewPBKDF2Hasher creates a new PBKDF2Hasher.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{}
}

// Ensure PBKDF2Hasher implements PasswordHasher.
var _ PasswordHasher = (*PBKDF2Hasher)(nil)

// Hash derives a PBKDF2-SHA256 key from the password with a fresh random
// salt and encodes it as $pbkdf2-sha256$i=<iterations>$<b64 salt>$<b64 hash>
// so the salt and parameters travel inside the stored string.
func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)

	encoded := fmt.Sprintf("$pbkdf2-sha256$i=%d$%s$%s",
		pbkdf2Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Compare re-derives the key from the candidate password using the salt and
// iteration count embedded in the encoded hash and compares in constant
// time. Returns ErrPasswordMismatch when the password is wrong.
func (h *PBKDF2Hasher) Compare(encodedHash, password string) error {
	iterations, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return err
	}

	candidate := pbkdf2.Key([]byte(password), salt, iterations, len(key), sha256.New)

	if subtle.ConstantTimeCompare(key, candidate) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}

// decodeHash parses an encoded PBKDF2-SHA256 hash string.
func decodeHash(encodedHash string) (int, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[0] != "" {
		return 0, nil, nil, ErrInvalidHashFormat
	}

	if parts[1] != "pbkdf2-sha256" {
		return 0, nil, nil, ErrInvalidHashFormat
	}

	if !strings.HasPrefix(parts[2], "i=") {
		return 0, nil, nil, ErrInvalidHashFormat
	}
	iterations, err := strconv.Atoi(strings.TrimPrefix(parts[2], "i="))
	if err != nil || iterations <= 0 {
		return 0, nil, nil, ErrInvalidHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return 0, nil, nil, ErrInvalidHashFormat
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return 0, nil, nil, ErrInvalidHashFormat
	}

	return iterations, salt, key, nil
}
