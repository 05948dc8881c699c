// Package credstore keeps the desktop client's bearer token on disk, encrypted with a key
// derived from a per-install secret.
package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	fileVersion = 1
	saltSize    = 16
	keySize     = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// ErrNotFound is returned by Load when nothing has been saved.
var ErrNotFound = errors.New("no stored credentials")

// ErrCorrupt is returned by Load when the file exists but cannot be decrypted with the
// store's secret.
var ErrCorrupt = errors.New("stored credentials cannot be decrypted")

// Credentials is what a signed-in client needs to resume after a restart.
type Credentials struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   string    `json:"account"`
	ServerURL string    `json:"server_url"`
}

// Expired reports whether the token can no longer authenticate at now.
func (c *Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type envelope struct {
	Version    int    `json:"v"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ct"`
}

// Store is an encrypted single-file credential store. It is safe for concurrent use.
type Store struct {
	path   string
	secret []byte
	mu     sync.Mutex
}

// New returns a store at path. secret must be stable for the install; a different
// secret cannot read what an earlier one saved.
func New(path string, secret []byte) (*Store, error) {
	if path == "" {
		return nil, errors.New("credstore: empty path")
	}
	if len(secret) == 0 {
		return nil, errors.New("credstore: empty secret")
	}
	return &Store{path: path, secret: append([]byte(nil), secret...)}, nil
}

// DefaultPath is credentials.enc under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "deskhub", "credentials.enc"), nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Save replaces whatever was stored. A fresh salt and nonce are used on every call.
func (s *Store) Save(c *Credentials) error {
	if c == nil || c.Token == "" {
		return errors.New("credstore: nothing to save")
	}

	plaintext, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := s.aead(salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	data, err := json.Marshal(envelope{
		Version:    fileVersion,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, []byte(s.path)),
	})
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.path, data)
}

// Load returns the stored credentials, ErrNotFound when there are none, or ErrCorrupt when
// the file was written with another secret or has been tampered with.
func (s *Store) Load() (*Credentials, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Version != fileVersion || len(env.Salt) != saltSize {
		return nil, ErrCorrupt
	}

	aead, err := s.aead(env.Salt)
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != aead.NonceSize() {
		return nil, ErrCorrupt
	}

	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, []byte(s.path))
	if err != nil {
		return nil, ErrCorrupt
	}

	var c Credentials
	if err := json.Unmarshal(plaintext, &c); err != nil {
		return nil, ErrCorrupt
	}
	return &c, nil
}

// Clear removes the stored credentials. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

func (s *Store) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(s.secret, salt, argonTime, argonMemory, argonThreads, keySize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return aead, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to restrict credential file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	return nil
}
