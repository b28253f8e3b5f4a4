package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/harulog/harulog/internal/apperror"
)

// maxPasswordBytes is bcrypt's input limit. Longer inputs are silently
// truncated by the primitive, so we reject them up front.
const maxPasswordBytes = 72

// defaultCost is the bcrypt work factor for production use. Roughly 250ms
// per hash on current server hardware.
const defaultCost = 12

// ErrPasswordMismatch is returned by Verify when the password does not
// match the stored hash.
var ErrPasswordMismatch = errors.New("auth: password does not match")

// PasswordService hashes and verifies passwords with bcrypt.
//
// Hashing is the only CPU-heavy step in the request path, so Hash acquires
// a weighted semaphore before calling into bcrypt. At most `workers`
// hashes run concurrently; further callers queue (respecting their request
// context) instead of piling bcrypt work onto every scheduler thread at
// once.
type PasswordService struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordService creates a PasswordService with the given bcrypt cost
// and concurrency bound. A cost outside bcrypt's valid range falls back to
// the default; workers < 1 is clamped to 1.
func NewPasswordService(cost, workers int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultCost
	}
	return newPasswordService(cost, workers)
}

// NewPasswordServiceForTest creates a PasswordService with a custom (low)
// bcrypt cost. Cost 4 is the library minimum and keeps tests fast; never
// use it in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return newPasswordService(cost, 2)
}

func newPasswordService(cost, workers int) *PasswordService {
	if workers < 1 {
		workers = 1
	}
	return &PasswordService{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(workers)),
	}
}

// Hash hashes a plaintext password. The output is a self-contained bcrypt
// string (version, cost, salt, digest) safe to store directly.
//
// Returns a validation error when the plaintext exceeds 72 bytes. Two calls
// with the same plaintext produce different hashes (random salt); both
// verify against the original password.
func (p *PasswordService) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or fewer", maxPasswordBytes))
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("auth: waiting for hash slot: %w", err)
	}
	defer p.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash.
//
// Returns nil on match and ErrPasswordMismatch otherwise. The underlying
// comparison is constant-time. Verify never panics on garbage input; a
// corrupt hash is reported as an error.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
