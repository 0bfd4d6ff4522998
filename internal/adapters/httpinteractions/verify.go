package httpinteractions

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

var ErrSignatureInvalid = errors.New("invalid request signature")

// Verifier chequea X-Signature-Ed25519 sobre timestamp+body con la public key de la app.
type Verifier struct {
	key ed25519.PublicKey
}

func NewVerifier(key ed25519.PublicKey) *Verifier { return &Verifier{key: key} }

func (v *Verifier) Verify(h http.Header, body []byte) error {
	// ed25519.Verify hace panic con keys de largo inválido
	if len(v.key) != ed25519.PublicKeySize {
		return ErrSignatureInvalid
	}
	r := &http.Request{Header: h, Body: io.NopCloser(bytes.NewReader(body))}
	if !discordgo.VerifyInteraction(r, v.key) {
		return ErrSignatureInvalid
	}
	return nil
}
