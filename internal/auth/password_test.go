package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harulog/harulog/internal/apperror"
)

// Cost 4 is the bcrypt minimum; it keeps each hash in the millisecond
// range instead of ~250ms.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

func TestHash_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash(context.Background(), "correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}

	if err := ps.Verify(hash, "correct-horse-battery-staple"); err != nil {
		t.Errorf("Verify() of the original password = %v, want nil", err)
	}
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()
	ctx := context.Background()

	hash1, _ := ps.Hash(ctx, "same-password")
	hash2, _ := ps.Hash(ctx, "same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
	if err := ps.Verify(hash1, "same-password"); err != nil {
		t.Errorf("first hash should verify: %v", err)
	}
	if err := ps.Verify(hash2, "same-password"); err != nil {
		t.Errorf("second hash should verify: %v", err)
	}
}

func TestHash_RejectsPasswordOver72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(context.Background(), strings.Repeat("a", 73))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Hash() of a 73-byte password = %v, want ErrValidation", err)
	}
}

func TestHash_AcceptsPasswordExactly72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(context.Background(), strings.Repeat("a", 72)); err != nil {
		t.Fatalf("Hash() should accept a 72-byte password, got: %v", err)
	}
}

func TestHash_CanceledContext(t *testing.T) {
	// One worker; hold its slot so the next Hash has to wait on a context
	// that is already canceled.
	ps := newPasswordService(4, 1)
	if err := ps.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("acquiring slot: %v", err)
	}
	defer ps.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ps.Hash(ctx, "password"); err == nil {
		t.Fatal("Hash() with a canceled context and no free slot should fail")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, _ := ps.Hash(context.Background(), "the-real-password")

	err := ps.Verify(hash, "the-wrong-password")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("Verify() of a wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestVerify_CorruptHash(t *testing.T) {
	ps := newTestPasswordService()

	err := ps.Verify("not-a-bcrypt-hash", "whatever")
	if err == nil {
		t.Fatal("Verify() should return an error for a corrupt hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("a corrupt hash should not read as a plain mismatch")
	}
}
