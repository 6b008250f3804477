package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OptOutPayload is what an unsubscribe token decrypts back to. The token is
// self-contained: redemption verifies it by decryption, not by a database
// lookup, and it carries no expiry.
type OptOutPayload struct {
	UserID    uint   `json:"user_id"`
	EmailType string `json:"email_type"`
}

// OptOutTokenService mints and redeems reversible, encrypted opt-out tokens
type OptOutTokenService struct {
	key     []byte
	siteURL string
}

// NewOptOutTokenService derives an AES-256 key from the configured secret
func NewOptOutTokenService(secret, siteURL string) *OptOutTokenService {
	sum := sha256.Sum256([]byte(secret))
	return &OptOutTokenService{
		key:     sum[:],
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// MintURL returns an absolute unsubscribe URL with the encrypted token as a
// path segment
func (s *OptOutTokenService) MintURL(userID uint, emailType string) (string, error) {
	token, err := s.Encrypt(OptOutPayload{UserID: userID, EmailType: emailType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/unsubscribe/%s", s.siteURL, token), nil
}

// Encrypt serializes the payload and seals it with AES-GCM, returning a
// URL-safe token
func (s *OptOutTokenService) Encrypt(payload OptOutPayload) (string, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal opt-out payload: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt recovers the payload from a minted token. Any tampering or
// truncation fails authentication and returns an error.
func (s *OptOutTokenService) Decrypt(token string) (*OptOutPayload, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed opt-out token: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("opt-out token too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid opt-out token: %w", err)
	}

	var payload OptOutPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal opt-out payload: %w", err)
	}
	return &payload, nil
}
