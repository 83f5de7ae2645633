package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher turns plaintext passwords into self-describing salted
// hashes and verifies candidates against them.
type PasswordHasher interface {
	// Hash returns an encoded Argon2id hash of password with a fresh random
	// salt. Hashing the same password twice yields different strings.
	Hash(password string) (string, error)

	// Verify reports whether password matches encodedHash. A hash that
	// cannot be decoded returns ErrInvalidHash.
	Verify(password, encodedHash string) (bool, error)
}
