package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"monke-bot/internal/config"
)

const (
	SignatureHeader = "X-Signature-Ed25519"
	TimestampHeader = "X-Signature-Timestamp"
)

var ErrBadSignature = errors.New("invalid request signature")

// Verifier checks that an interaction was signed by Discord with the
// application's public key.
type Verifier struct {
	key ed25519.PublicKey
}

func NewVerifier(cfg *config.Config) (*Verifier, error) {
	return NewVerifierFromHex(cfg.DiscordPublicKey)
}

func NewVerifierFromHex(publicKey string) (*Verifier, error) {
	if publicKey == "" {
		return nil, fmt.Errorf("DISCORD_PUBLIC_KEY is required")
	}
	raw, err := hex.DecodeString(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode discord public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("discord public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Verifier{key: ed25519.PublicKey(raw)}, nil
}

// Verify checks signature over timestamp followed by the raw body.
func (v *Verifier) Verify(signature, timestamp string, body []byte) error {
	if signature == "" || timestamp == "" {
		return fmt.Errorf("%w: missing signature headers", ErrBadSignature)
	}
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: malformed signature", ErrBadSignature)
	}

	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)

	if !ed25519.Verify(v.key, msg, sig) {
		return ErrBadSignature
	}
	return nil
}
