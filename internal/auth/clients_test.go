package auth

import "testing"

func newTestRegistry(t *testing.T) *ClientRegistry {
	t.Helper()
	hash, err := HashSecret("correct-horse")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	return NewClientRegistry(map[string]string{"backend": hash})
}

func TestVerify_ValidCredentials(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Verify("backend", "correct-horse"); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Verify("backend", "battery-staple"); err == nil {
		t.Error("Verify() should reject a wrong secret")
	}
}

func TestVerify_UnknownClient(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Verify("nobody", "correct-horse"); err == nil {
		t.Error("Verify() should reject an unknown client")
	}
}

func TestVerify_EmptyRegistry(t *testing.T) {
	r := NewClientRegistry(nil)

	if err := r.Verify("backend", "anything"); err == nil {
		t.Error("Verify() against an empty registry should fail")
	}
}

func TestHashSecret_ProducesVerifiableHash(t *testing.T) {
	hash, err := HashSecret("s3cret")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}

	r := NewClientRegistry(map[string]string{"c": hash})
	if err := r.Verify("c", "s3cret"); err != nil {
		t.Errorf("Verify() with freshly hashed secret failed: %v", err)
	}
}
