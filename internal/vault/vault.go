// Package vault provides the custody containers the auction engine moves
// value through. A Currency vault holds a fungible amount of a single denom;
// an Items vault holds a set of uniquely-identified items. Transfers drain
// the source, so a unit of value is never referenced by two vaults at once.
package vault

import "errors"

var (
	ErrDenomMismatch     = errors.New("vault: denom mismatch")
	ErrInsufficientFunds = errors.New("vault: insufficient funds")
	ErrNegativeAmount    = errors.New("vault: negative amount")
	ErrItemNotHeld       = errors.New("vault: item not held")
	ErrItemAlreadyHeld   = errors.New("vault: item already held")
)

type Currency struct {
	denom  string
	amount int64
}

func NewCurrency(denom string) *Currency {
	return &Currency{denom: denom}
}

// Funds creates a funded vault, standing in for value handed over by the
// external asset registry.
func Funds(denom string, amount int64) *Currency {
	if amount < 0 {
		amount = 0
	}
	return &Currency{denom: denom, amount: amount}
}

func (v *Currency) Denom() string { return v.denom }
func (v *Currency) Amount() int64 { return v.amount }

// Deposit drains from into v. Both vaults must share a denom.
func (v *Currency) Deposit(from *Currency) error {
	if from.denom != v.denom {
		return ErrDenomMismatch
	}
	v.amount += from.amount
	from.amount = 0
	return nil
}

// Take splits amount out of v into a fresh vault.
func (v *Currency) Take(amount int64) (*Currency, error) {
	if amount < 0 {
		return nil, ErrNegativeAmount
	}
	if amount > v.amount {
		return nil, ErrInsufficientFunds
	}
	v.amount -= amount
	return &Currency{denom: v.denom, amount: amount}, nil
}

// TakeAll empties v into a fresh vault.
func (v *Currency) TakeAll() *Currency {
	out := &Currency{denom: v.denom, amount: v.amount}
	v.amount = 0
	return out
}

type Items struct {
	held map[string]struct{}
}

func NewItems() *Items {
	return &Items{held: make(map[string]struct{})}
}

func (v *Items) Put(id string) error {
	if _, ok := v.held[id]; ok {
		return ErrItemAlreadyHeld
	}
	v.held[id] = struct{}{}
	return nil
}

// Take removes a single item by identifier. Failing here is the engine's
// authoritative guard against selling the same item twice.
func (v *Items) Take(id string) error {
	if _, ok := v.held[id]; !ok {
		return ErrItemNotHeld
	}
	delete(v.held, id)
	return nil
}

func (v *Items) TakeAll() []string {
	out := make([]string, 0, len(v.held))
	for id := range v.held {
		out = append(out, id)
	}
	v.held = make(map[string]struct{})
	return out
}

func (v *Items) Contains(id string) bool {
	_, ok := v.held[id]
	return ok
}

func (v *Items) Len() int { return len(v.held) }
