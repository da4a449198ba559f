package verify

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedRequest(t *testing.T) (*Verifier, string, string, []byte) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	timestamp := "1700000000"
	body := []byte(`{"type":1}`)

	message := append([]byte(timestamp), body...)
	signature := hex.EncodeToString(ed25519.Sign(priv, message))

	return NewWithKey(hex.EncodeToString(pub)), signature, timestamp, body
}

func TestVerify_NoKeyConfigured(t *testing.T) {
	v := NewWithKey("")

	assert.False(t, v.Verify("", "", nil))
	assert.False(t, v.Verify("deadbeef", "1700000000", []byte(`{"type":1}`)))

	_, signature, timestamp, body := signedRequest(t)
	assert.False(t, v.Verify(signature, timestamp, body))
}

func TestVerify_MalformedKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"not hex", "zzzz"},
		{"wrong length", "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewWithKey(tt.key)

			_, signature, timestamp, body := signedRequest(t)
			assert.False(t, v.Verify(signature, timestamp, body))
		})
	}
}

func TestVerify_ValidSignature(t *testing.T) {
	v, signature, timestamp, body := signedRequest(t)

	assert.True(t, v.Verify(signature, timestamp, body))
}

func TestVerify_TamperedInputs(t *testing.T) {
	v, signature, timestamp, body := signedRequest(t)
	require.True(t, v.Verify(signature, timestamp, body))

	t.Run("flipped signature byte", func(t *testing.T) {
		sig, err := hex.DecodeString(signature)
		require.NoError(t, err)
		sig[0] ^= 0x01

		assert.False(t, v.Verify(hex.EncodeToString(sig), timestamp, body))
	})

	t.Run("flipped timestamp byte", func(t *testing.T) {
		assert.False(t, v.Verify(signature, "1700000001", body))
	})

	t.Run("flipped body byte", func(t *testing.T) {
		tampered := append([]byte(nil), body...)
		tampered[0] ^= 0x01

		assert.False(t, v.Verify(signature, timestamp, tampered))
	})

	t.Run("malformed signature hex", func(t *testing.T) {
		assert.False(t, v.Verify("not-hex", timestamp, body))
	})

	t.Run("truncated signature", func(t *testing.T) {
		assert.False(t, v.Verify(signature[:16], timestamp, body))
	})
}
