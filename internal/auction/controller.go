// Package auction implements the auction-and-escrow engine: a pricing state
// machine combined with custody vaults and the bid/settlement ledgers that
// route items and currency between issuer, buyers and outbid participants.
//
// Every public operation is all-or-nothing: validation happens up front and
// state is only touched once the operation can no longer fail. A single
// mutex serializes operations, so no caller ever observes a partially
// applied one. Caller authorization for owner-only operations is enforced
// outside the engine.
package auction

import (
	"errors"
	"sort"
	"sync"
	"time"

	"auctionhouse/internal/credential"
	"auctionhouse/internal/models"
	"auctionhouse/internal/pricing"
	"auctionhouse/internal/vault"

	"github.com/google/uuid"
)

type Controller struct {
	mu sync.Mutex

	denom  string
	status models.AuctionStatus
	policy pricing.Policy

	inventory *inventory
	itemVault *vault.Items

	bids        *bidLedger
	settlements *settlementLedger
	creds       *credential.Registry
	whitelist   *whitelistGate

	collected       *vault.Currency
	amountToCollect int64

	emit func(models.Event)
}

func New(denom string) *Controller {
	return &Controller{
		denom:       denom,
		status:      models.AuctionNotStarted,
		policy:      pricing.Policy{Kind: pricing.None},
		inventory:   newInventory(),
		itemVault:   vault.NewItems(),
		bids:        newBidLedger(),
		settlements: newSettlementLedger(),
		creds:       credential.NewRegistry(),
		collected:   vault.NewCurrency(denom),
	}
}

// SetEmitter installs a sink for committed-operation events. Must be set
// before the controller is shared.
func (c *Controller) SetEmitter(fn func(models.Event)) {
	c.emit = fn
}

func (c *Controller) Denom() string { return c.denom }

func (c *Controller) Status() models.AuctionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) Policy() pricing.Policy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy
}

func (c *Controller) AmountToCollect() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amountToCollect
}

func (c *Controller) ConfigureFixed(price int64) error {
	if price < 0 {
		return errors.New("price must not be negative")
	}
	return c.configure(pricing.FixedPolicy(price))
}

func (c *Controller) ConfigureDutch(initial, decrease int64, start, duration uint64) error {
	if initial < 0 || decrease < 0 {
		return errors.New("initial price and decrease must not be negative")
	}
	return c.configure(pricing.DutchPolicy(initial, decrease, start, duration))
}

func (c *Controller) ConfigureEnglish(minOpeningBid int64, start, duration uint64) error {
	if minOpeningBid < 0 {
		return errors.New("minimum opening bid must not be negative")
	}
	return c.configure(pricing.EnglishPolicy(minOpeningBid, start, duration))
}

func (c *Controller) configure(p pricing.Policy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != models.AuctionNotStarted {
		return ErrConfigLocked
	}
	c.policy = p
	return nil
}

// ConfigureWhitelist gates the purchase path behind credentials of the given
// class, each usable at most maxUses times.
func (c *Controller) ConfigureWhitelist(class credential.Class, maxUses int) error {
	if maxUses < 1 {
		return errors.New("max uses must be positive")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != models.AuctionNotStarted {
		return ErrConfigLocked
	}
	c.whitelist = newWhitelistGate(class, maxUses)
	return nil
}

// IssueWhitelistCredential mints a credential of the configured gating
// class. Issuer authority is enforced by the caller.
func (c *Controller) IssueWhitelistCredential() (credential.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.whitelist == nil {
		return "", errors.New("whitelist not configured")
	}
	return c.creds.Issue(c.whitelist.class), nil
}

func (c *Controller) Start(now uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.status {
	case models.AuctionOngoing:
		return ErrAlreadyStarted
	case models.AuctionClosed:
		return ErrAuctionClosed
	}
	if c.policy.Kind == pricing.None {
		return ErrNoPolicyConfigured
	}
	c.status = models.AuctionOngoing
	c.emitEvent(models.Event{Type: models.EventAuctionStarted, Epoch: now})
	return nil
}

// Mint registers a new item and places it in the engine's custody. The item
// identifier is assigned here, standing in for the external asset registry.
func (c *Controller) Mint(info models.ItemInfo) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == models.AuctionClosed {
		return "", ErrAuctionClosed
	}
	id := uuid.NewString()
	if err := c.inventory.mint(id, info); err != nil {
		return "", err
	}
	if err := c.itemVault.Put(id); err != nil {
		return "", err
	}
	c.emitEvent(models.Event{Type: models.EventItemMinted, ItemID: id})
	return id, nil
}

// Purchase buys an item at the policy's current price. The payment vault is
// drained by exactly the price and returned to the caller as change.
func (c *Controller) Purchase(itemID string, payment *vault.Currency, wl credential.Token, now uint64) (*vault.Currency, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOngoing(); err != nil {
		return nil, err
	}
	if c.whitelist != nil {
		if err := c.whitelist.check(c.creds, wl); err != nil {
			return nil, err
		}
	}
	price, ok := c.policy.CurrentPrice(now)
	if !ok {
		return nil, ErrAuctionNotPurchasable
	}
	if payment.Denom() != c.denom {
		return nil, ErrWrongPaymentDenom
	}
	if payment.Amount() < price {
		return nil, ErrInsufficientPayment
	}
	if !c.itemVault.Contains(itemID) || !c.inventory.isAvailable(itemID) {
		return nil, ErrItemUnavailable
	}

	// All checks passed; mutations below cannot fail.
	if err := c.itemVault.Take(itemID); err != nil {
		return nil, ErrItemUnavailable
	}
	if err := c.inventory.markUnavailable(itemID); err != nil {
		return nil, ErrItemUnavailable
	}
	cut, err := payment.Take(price)
	if err != nil {
		return nil, ErrInsufficientPayment
	}
	if err := c.collected.Deposit(cut); err != nil {
		return nil, ErrWrongPaymentDenom
	}
	c.amountToCollect = c.collected.Amount()
	if c.whitelist != nil {
		c.whitelist.recordUse(wl)
	}
	c.emitEvent(models.Event{Type: models.EventItemPurchased, ItemID: itemID, Amount: price, Epoch: now})
	return payment, nil
}

// Bid escrows payment as a competing bid on an item and returns a fresh
// single-use bidder credential. A previous bid is evicted into the
// settlement ledger, claimable in full by its credential.
func (c *Controller) Bid(itemID string, payment *vault.Currency, now uint64) (credential.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOngoing(); err != nil {
		return "", err
	}
	if c.policy.Kind != pricing.English {
		return "", ErrAuctionNotBiddable
	}
	if payment.Denom() != c.denom {
		return "", ErrWrongPaymentDenom
	}
	if !c.itemVault.Contains(itemID) || !c.inventory.isAvailable(itemID) {
		return "", ErrItemUnavailable
	}
	amount := payment.Amount()
	if amount < c.policy.MinOpeningBid {
		return "", ErrBidTooLow
	}
	if prev, ok := c.bids.current(itemID); ok && amount <= prev.amount {
		// Ties favor the earlier bidder.
		return "", ErrBidTooLow
	}

	escrow := vault.NewCurrency(c.denom)
	if err := escrow.Deposit(payment); err != nil {
		return "", ErrWrongPaymentDenom
	}
	tok := c.creds.Issue(credential.ClassBidder)
	prev, evicted := c.bids.replace(itemID, bidEntry{bidder: tok, escrow: escrow, amount: amount})
	if evicted {
		c.settlements.put(prev.bidder, withdrawalEntry{
			items: vault.NewItems(),
			funds: prev.escrow,
		})
		c.emitEvent(models.Event{Type: models.EventBidderOutbid, ItemID: itemID, Amount: prev.amount, Epoch: now})
	}
	c.emitEvent(models.Event{Type: models.EventBidPlaced, ItemID: itemID, Amount: amount, Epoch: now})
	return tok, nil
}

// CloseResult reports what CloseAuction moved.
type CloseResult struct {
	ResolvedItems []string        // items delivered to winning bidders
	UnsoldItems   []string        // items swept back to the issuer
	Proceeds      *vault.Currency // swept collected funds, nil on an English resolve
}

// CloseAuction ends the auction. In English mode it requires the end epoch
// to have passed, settles every live bid, then converts the policy to a
// fixed fallback at the nominal closing valuation while the auction stays
// open for leftover items. In Fixed and Dutch modes it sweeps all remaining
// inventory and proceeds out to the issuer and transitions to Closed.
func (c *Controller) CloseAuction(now uint64) (*CloseResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case models.AuctionNotStarted:
		return nil, ErrNotStarted
	case models.AuctionClosed:
		return nil, ErrAuctionClosed
	}

	if c.policy.Kind == pricing.English {
		return c.resolveEnglish(now)
	}
	return c.sweep(now)
}

func (c *Controller) resolveEnglish(now uint64) (*CloseResult, error) {
	if now < c.policy.EndEpoch() {
		return nil, ErrTooEarlyToClose
	}

	res := &CloseResult{}
	for _, itemID := range c.bids.itemIDs() {
		entry, _ := c.bids.current(itemID)
		if err := c.itemVault.Take(itemID); err != nil {
			return nil, ErrItemUnavailable
		}
		if err := c.inventory.markUnavailable(itemID); err != nil {
			return nil, ErrItemUnavailable
		}
		won := vault.NewItems()
		if err := won.Put(itemID); err != nil {
			return nil, err
		}
		c.settlements.put(entry.bidder, withdrawalEntry{
			items: won,
			funds: vault.NewCurrency(c.denom),
		})
		if err := c.collected.Deposit(entry.escrow); err != nil {
			return nil, err
		}
		c.amountToCollect = c.collected.Amount()
		c.bids.remove(itemID)
		res.ResolvedItems = append(res.ResolvedItems, itemID)
	}

	// Unsold items stay purchasable at the closing valuation.
	c.policy = pricing.FixedPolicy(c.policy.ClosingPrice())
	c.emitEvent(models.Event{Type: models.EventAuctionClosed, ItemIDs: res.ResolvedItems, Epoch: now})
	return res, nil
}

func (c *Controller) sweep(now uint64) (*CloseResult, error) {
	unsold := c.itemVault.TakeAll()
	sort.Strings(unsold)
	for _, id := range unsold {
		if err := c.inventory.markUnavailable(id); err != nil {
			return nil, ErrUnknownItem
		}
	}
	res := &CloseResult{
		UnsoldItems: unsold,
		Proceeds:    c.collected.TakeAll(),
	}
	c.amountToCollect = 0
	c.status = models.AuctionClosed
	c.emitEvent(models.Event{Type: models.EventAuctionClosed, ItemIDs: unsold, Epoch: now})
	return res, nil
}

// Withdraw claims everything owed to a credential and burns it. The burn
// and the ledger removal happen in the same critical section, so a claim is
// exactly-once.
func (c *Controller) Withdraw(tok credential.Token) ([]string, *vault.Currency, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.settlements.has(tok) {
		return nil, nil, ErrNothingToWithdraw
	}
	// Burn before removing the entry; a failed burn leaves the ledger intact.
	if err := c.creds.Burn(tok); err != nil {
		return nil, nil, ErrNothingToWithdraw
	}
	entry, _ := c.settlements.claim(tok)
	items := entry.items.TakeAll()
	funds := entry.funds.TakeAll()
	c.emitEvent(models.Event{Type: models.EventWithdrawn, Amount: funds.Amount()})
	return items, funds, nil
}

// CollectPayments withdraws the entire collected vault to the issuer and
// zeroes the collectible counter. Callable at any time.
func (c *Controller) CollectPayments() *vault.Currency {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.collected.TakeAll()
	c.amountToCollect = 0
	c.emitEvent(models.Event{Type: models.EventPaymentsCollected, Amount: out.Amount()})
	return out
}

func (c *Controller) ListInventory() map[string]models.ItemInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inventory.snapshot()
}

func (c *Controller) requireOngoing() error {
	switch c.status {
	case models.AuctionNotStarted:
		return ErrNotStarted
	case models.AuctionClosed:
		return ErrAuctionClosed
	}
	return nil
}

func (c *Controller) emitEvent(ev models.Event) {
	if c.emit == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.Denom = c.denom
	ev.Timestamp = time.Now().UTC()
	c.emit(ev)
}
