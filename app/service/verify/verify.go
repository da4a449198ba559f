package verify

import (
	"crypto/ed25519"
	"encoding/hex"
	"log/slog"

	"contextbot/app/config"

	"github.com/samber/do"
)

// Verifier checks detached ed25519 signatures over timestamp||body,
// the scheme Discord uses for interaction webhooks.
type Verifier struct {
	publicKey ed25519.PublicKey
}

func New(di *do.Injector) (*Verifier, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewWithKey(cfg.Discord.PublicKey), nil
}

// NewWithKey builds a Verifier from a hex-encoded public key. An empty
// or malformed key yields a verifier that rejects everything.
func NewWithKey(hexKey string) *Verifier {
	if hexKey == "" {
		slog.Warn("No interaction public key configured, all interaction signatures will be rejected")
		return &Verifier{}
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != ed25519.PublicKeySize {
		slog.Error("Invalid interaction public key", "error", err)
		return &Verifier{}
	}

	return &Verifier{publicKey: key}
}

// Verify reports whether signature is a valid detached signature over
// timestamp||body under the configured key. All failure modes return
// false: missing key, malformed hex, wrong sizes, bad signature.
func (v *Verifier) Verify(signature, timestamp string, body []byte) bool {
	if v.publicKey == nil {
		slog.Debug("Signature verification failed: no public key configured")
		return false
	}

	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		slog.Debug("Signature verification failed: malformed signature", "error", err)
		return false
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)

	if !ed25519.Verify(v.publicKey, message, sig) {
		slog.Debug("Signature verification failed: signature mismatch")
		return false
	}

	return true
}
