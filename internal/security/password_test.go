package security

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, errHash := HashPassword("hunter2")
	if errHash != nil {
		t.Fatalf("hash: %v", errHash)
	}
	if hash == "hunter2" {
		t.Fatalf("expected hash to differ from plaintext")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatalf("expected matching password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}
}
