package config

import (
	"strings"
	"testing"
)

func TestPlainTextCredentialsRoundtrip(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText)
	store.Set("openai", "sk-test-123")
	store.Set("anthropic", "sk-ant-456")

	if err := store.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewCredentialStore(SecurityPlainText)
	if err := reloaded.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reloaded.Get("openai"); got != "sk-test-123" {
		t.Errorf("openai key = %q", got)
	}
	if got := reloaded.Get("anthropic"); got != "sk-ant-456" {
		t.Errorf("anthropic key = %q", got)
	}
}

func TestEncryptedCredentialsRoundtrip(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPassphrase)
	store.SetPassphrase("correct horse")
	store.Set("anthropic", "sk-ant-secret")

	if err := store.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewCredentialStore(SecurityPassphrase)
	reloaded.SetPassphrase("correct horse")
	if err := reloaded.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reloaded.Get("anthropic"); got != "sk-ant-secret" {
		t.Errorf("decrypted key = %q", got)
	}
}

func TestEncryptedCredentialsWrongPassphrase(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPassphrase)
	store.SetPassphrase("right")
	store.Set("openai", "sk-secret")
	if err := store.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	wrong := NewCredentialStore(SecurityPassphrase)
	wrong.SetPassphrase("wrong")
	err := wrong.Load(dir)
	if err == nil {
		t.Fatal("Load with the wrong passphrase must fail")
	}
	if !strings.Contains(err.Error(), "decrypt") {
		t.Errorf("err = %v, want a decryption failure", err)
	}
}

func TestNeedsPassphrase(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPassphrase)
	if store.NeedsPassphrase(dir) {
		t.Error("no credentials file yet, nothing to unlock")
	}

	store.SetPassphrase("pw")
	store.Set("openai", "key")
	if err := store.Save(dir); err != nil {
		t.Fatal(err)
	}

	locked := NewCredentialStore(SecurityPassphrase)
	if !locked.NeedsPassphrase(dir) {
		t.Error("encrypted file exists and no passphrase set: unlock required")
	}

	locked.SetPassphrase("pw")
	if locked.NeedsPassphrase(dir) {
		t.Error("passphrase provided, no unlock prompt needed")
	}

	plain := NewCredentialStore(SecurityPlainText)
	if plain.NeedsPassphrase(dir) {
		t.Error("plaintext stores never need a passphrase")
	}
}

func TestLoadMissingCredentialsFile(t *testing.T) {
	for _, method := range []SecurityMethod{SecurityPlainText, SecurityPassphrase} {
		store := NewCredentialStore(method)
		store.SetPassphrase("pw")
		if err := store.Load(t.TempDir()); err != nil {
			t.Errorf("%s: missing file must start an empty store, got %v", method, err)
		}
		if store.Get("anything") != "" {
			t.Errorf("%s: fresh store must be empty", method)
		}
	}
}

func TestEncryptionManagerRoundtrip(t *testing.T) {
	mgr := NewEncryptionManager(EncryptionPassphrase)
	mgr.SetPassphrase("pw")
	if err := mgr.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	plaintext := []byte("api keys and other secrets")
	ciphertext, err := mgr.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if string(ciphertext) == string(plaintext) {
		t.Fatal("ciphertext must differ from plaintext")
	}

	// A second manager with the same passphrase and salt can decrypt
	other := NewEncryptionManager(EncryptionPassphrase)
	other.SetPassphrase("pw")
	other.SetSalt(mgr.Salt())
	if err := other.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	decrypted, err := other.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(decrypted) != string(plaintext) {
		t.Errorf("roundtrip = %q", decrypted)
	}
}

func TestEncryptionManagerRequiresPassphrase(t *testing.T) {
	mgr := NewEncryptionManager(EncryptionPassphrase)
	if err := mgr.Initialize(); err == nil {
		t.Error("Initialize without a passphrase must fail")
	}
}
