package auction

import "auctionhouse/internal/credential"

// whitelistGate restricts purchases to holders of credentials of a gating
// class, each usable at most maxUses times. The credential is presented, not
// consumed.
type whitelistGate struct {
	class   credential.Class
	maxUses int
	uses    map[credential.Token]int
}

func newWhitelistGate(class credential.Class, maxUses int) *whitelistGate {
	return &whitelistGate{
		class:   class,
		maxUses: maxUses,
		uses:    make(map[credential.Token]int),
	}
}

// check validates the presented token against the gate without counting a
// use. The caller records the use only once the purchase has committed.
func (g *whitelistGate) check(reg *credential.Registry, tok credential.Token) error {
	if tok == "" {
		return ErrWhitelistRequired
	}
	class, ok := reg.ClassOf(tok)
	if !ok || class != g.class {
		return ErrWhitelistMismatch
	}
	if g.uses[tok]+1 > g.maxUses {
		return ErrWhitelistExhausted
	}
	return nil
}

func (g *whitelistGate) recordUse(tok credential.Token) {
	g.uses[tok]++
}
