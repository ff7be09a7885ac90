package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
)

// Cost 4 is bcrypt's minimum — keeps these tests fast.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

func TestHashAndVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("right-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	err = ps.Verify(hash, "wrong-password")
	if err == nil {
		t.Fatal("Verify() with wrong password should fail")
	}
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Verify() error = %v, want ErrUnauthorized", err)
	}
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	ps := newTestPasswordService()

	// bcrypt truncates at 72 bytes; Hash must refuse instead.
	_, err := ps.Hash(strings.Repeat("a", 73))
	if err == nil {
		t.Fatal("Hash() should reject passwords over 72 bytes")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Hash() error = %v, want ErrValidation", err)
	}
}

func TestHashIsSalted(t *testing.T) {
	ps := newTestPasswordService()

	first, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical — salt missing")
	}
}
