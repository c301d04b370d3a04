// Package signing encrypts subscription contract signatures before they
// are written to the trade log, using fernet symmetric tokens.
package signing

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Signer encrypts and decrypts signature payloads. A Signer built without
// a key passes values through unchanged, which keeps local development
// setups working without secrets.
type Signer struct {
	key *fernet.Key
}

// NewSigner parses the base64 fernet key. An empty key yields a disabled
// pass-through signer.
func NewSigner(encodedKey string) (*Signer, error) {
	if encodedKey == "" {
		return &Signer{}, nil
	}

	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing key: %w", err)
	}
	return &Signer{key: key}, nil
}

// Enabled reports whether encryption is active.
func (s *Signer) Enabled() bool {
	return s.key != nil
}

// Encrypt seals a signature payload. Pass-through when disabled.
func (s *Signer) Encrypt(plaintext string) (string, error) {
	if s.key == nil || plaintext == "" {
		return plaintext, nil
	}

	token, err := fernet.EncryptAndSign([]byte(plaintext), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt signature: %w", err)
	}
	return string(token), nil
}

// Decrypt opens a sealed signature payload. Tokens do not expire; the
// signature must stay readable for the lifetime of the transaction record.
func (s *Signer) Decrypt(token string) (string, error) {
	if s.key == nil || token == "" {
		return token, nil
	}

	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{s.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt signature token")
	}
	return string(plaintext), nil
}
