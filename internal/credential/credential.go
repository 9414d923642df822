// Package credential issues and revokes the capability tokens the engine
// hands to bidders and whitelist participants. A token is an opaque value:
// holding it is the only proof of entitlement, and burning it is what makes
// a claim exactly-once.
package credential

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

var ErrUnknownToken = errors.New("credential: unknown or burned token")

type Class string

const ClassBidder Class = "bidder"

type Token string

// Registry tracks which tokens are still valid. Tokens leave the registry
// only by being burned.
type Registry struct {
	live map[Token]Class
}

func NewRegistry() *Registry {
	return &Registry{live: make(map[Token]Class)}
}

// Issue mints a fresh single-use token of the given class.
func (r *Registry) Issue(class Class) Token {
	tok := newToken()
	r.live[tok] = class
	return tok
}

// ClassOf reports the class of a live token.
func (r *Registry) ClassOf(tok Token) (Class, bool) {
	class, ok := r.live[tok]
	return class, ok
}

// Burn invalidates a token. A burned token can never be presented again.
func (r *Registry) Burn(tok Token) error {
	if _, ok := r.live[tok]; !ok {
		return ErrUnknownToken
	}
	delete(r.live, tok)
	return nil
}

// newToken derives a compact unguessable token: random UUID hashed through
// blake2b, rendered base58.
func newToken() Token {
	id := uuid.New()
	sum := blake2b.Sum256(id[:])
	return Token(base58.Encode(sum[:20]))
}
