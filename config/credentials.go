package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText  SecurityMethod = "plaintext"
	SecurityPassphrase SecurityMethod = "passphrase"
)

// CredentialStore manages encrypted or plain-text API credentials
type CredentialStore struct {
	method      SecurityMethod
	credentials map[string]string // providerID -> API key
	passphrase  string
	encManager  *EncryptionManager
}

// NewCredentialStore creates a new credential store
func NewCredentialStore(method SecurityMethod) *CredentialStore {
	if method == "" {
		method = SecurityPlainText
	}
	return &CredentialStore{
		method:      method,
		credentials: make(map[string]string),
	}
}

// SetPassphrase sets the passphrase for the encrypted store
func (c *CredentialStore) SetPassphrase(passphrase string) {
	c.passphrase = passphrase
	if c.encManager != nil {
		c.encManager.SetPassphrase(passphrase)
	}
}

// Load loads credentials from disk based on the configured security method.
// A missing credentials file is not an error - the store starts empty.
func (c *CredentialStore) Load(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		creds, err := loadPlainText(dataDir)
		if err != nil {
			return err
		}
		c.credentials = creds
		return nil

	case SecurityPassphrase:
		creds, err := c.loadEncrypted(dataDir)
		if err != nil {
			return err
		}
		c.credentials = creds
		return nil

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// Save saves credentials to disk based on the configured security method
func (c *CredentialStore) Save(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		return savePlainText(dataDir, c.credentials)

	case SecurityPassphrase:
		return c.saveEncrypted(dataDir)

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// Get retrieves a credential for a provider
func (c *CredentialStore) Get(providerID string) string {
	return c.credentials[providerID]
}

// Set stores a credential for a provider
func (c *CredentialStore) Set(providerID string, apiKey string) {
	c.credentials[providerID] = apiKey
}

// Delete removes a credential for a provider
func (c *CredentialStore) Delete(providerID string) {
	delete(c.credentials, providerID)
}

// GetMethod returns the current security method
func (c *CredentialStore) GetMethod() SecurityMethod {
	return c.method
}

// NeedsPassphrase reports whether an encrypted credentials file exists but no
// passphrase has been provided yet.
func (c *CredentialStore) NeedsPassphrase(dataDir string) bool {
	return c.method == SecurityPassphrase &&
		c.passphrase == "" &&
		FileExists(encryptedCredentialsPath(dataDir))
}

func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}

func encryptedCredentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.enc")
}

type plainCredentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

func loadPlainText(dataDir string) (map[string]string, error) {
	path := credentialsPath(dataDir)
	if !FileExists(path) {
		return make(map[string]string), nil
	}

	var file plainCredentialsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if file.Credentials == nil {
		file.Credentials = make(map[string]string)
	}
	return file.Credentials, nil
}

func savePlainText(dataDir string, creds map[string]string) error {
	f, err := os.OpenFile(credentialsPath(dataDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open credentials file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(plainCredentialsFile{Credentials: creds}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return nil
}

// encryptedCredentialsFile is the JSON envelope on disk:
// the argon2id salt plus the AES-GCM ciphertext, both base64.
type encryptedCredentialsFile struct {
	Salt       string `json:"salt"`
	Ciphertext string `json:"ciphertext"`
}

func (c *CredentialStore) ensureManager() *EncryptionManager {
	if c.encManager == nil {
		c.encManager = NewEncryptionManager(EncryptionPassphrase)
		c.encManager.SetPassphrase(c.passphrase)
	}
	return c.encManager
}

func (c *CredentialStore) loadEncrypted(dataDir string) (map[string]string, error) {
	path := encryptedCredentialsPath(dataDir)
	if !FileExists(path) {
		return make(map[string]string), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var file encryptedCredentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid credentials file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials salt: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(file.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials ciphertext: %w", err)
	}

	mgr := c.ensureManager()
	mgr.SetSalt(salt)
	if err := mgr.Initialize(); err != nil {
		return nil, err
	}

	plaintext, err := mgr.Decrypt(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials (wrong passphrase?): %w", err)
	}

	creds := make(map[string]string)
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("corrupt credentials payload: %w", err)
	}
	return creds, nil
}

func (c *CredentialStore) saveEncrypted(dataDir string) error {
	mgr := c.ensureManager()
	if err := mgr.Initialize(); err != nil {
		return err
	}

	plaintext, err := json.Marshal(c.credentials)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	ciphertext, err := mgr.Encrypt(plaintext)
	if err != nil {
		return err
	}

	file := encryptedCredentialsFile{
		Salt:       base64.StdEncoding.EncodeToString(mgr.Salt()),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}
	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials envelope: %w", err)
	}

	if err := os.WriteFile(encryptedCredentialsPath(dataDir), data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}
