package auction

import (
	"encoding/json"
	"testing"

	"auctionhouse/internal/models"
	"auctionhouse/internal/pricing"
	"auctionhouse/internal/vault"

	"github.com/stretchr/testify/require"
)

const denom = "xrd"

func mintOne(t *testing.T, c *Controller) string {
	t.Helper()
	id, err := c.Mint(models.ItemInfo{Name: "piece", Metadata: "k,v"})
	require.NoError(t, err)
	return id
}

func TestFixedPurchaseReturnsChange(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))

	change, err := c.Purchase(id, vault.Funds(denom, 100), "", 0)
	require.NoError(t, err)
	require.EqualValues(t, 90, change.Amount())
	require.EqualValues(t, 10, c.AmountToCollect())
	require.False(t, c.ListInventory()[id].Available)
}

func TestFixedPurchaseInsufficientPayment(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))

	payment := vault.Funds(denom, 1)
	_, err := c.Purchase(id, payment, "", 0)
	require.ErrorIs(t, err, ErrInsufficientPayment)

	// Nothing changed: payment untouched, item still available.
	require.EqualValues(t, 1, payment.Amount())
	require.True(t, c.ListInventory()[id].Available)
	require.EqualValues(t, 0, c.AmountToCollect())
}

func TestPurchaseWrongDenom(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))

	_, err := c.Purchase(id, vault.Funds("doge", 100), "", 0)
	require.ErrorIs(t, err, ErrWrongPaymentDenom)
	require.True(t, c.ListInventory()[id].Available)
}

func TestPurchaseSameItemTwice(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))

	_, err := c.Purchase(id, vault.Funds(denom, 10), "", 0)
	require.NoError(t, err)
	_, err = c.Purchase(id, vault.Funds(denom, 10), "", 0)
	require.ErrorIs(t, err, ErrItemUnavailable)
}

func TestPurchaseBeforeStart(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureFixed(10))

	_, err := c.Purchase(id, vault.Funds(denom, 10), "", 0)
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestDutchPurchaseSchedule(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureDutch(11, 1, 0, 10))
	require.NoError(t, c.Start(0))

	_, err := c.Purchase(id, vault.Funds(denom, 5), "", 5)
	require.ErrorIs(t, err, ErrInsufficientPayment)

	change, err := c.Purchase(id, vault.Funds(denom, 6), "", 5)
	require.NoError(t, err)
	require.EqualValues(t, 0, change.Amount())
	require.EqualValues(t, 6, c.AmountToCollect())
}

func TestConfigureLockedAfterStart(t *testing.T) {
	c := New(denom)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))

	require.ErrorIs(t, c.ConfigureFixed(20), ErrConfigLocked)
	require.ErrorIs(t, c.ConfigureDutch(10, 1, 0, 5), ErrConfigLocked)
	require.ErrorIs(t, c.ConfigureEnglish(10, 0, 5), ErrConfigLocked)
	require.ErrorIs(t, c.ConfigureWhitelist("vip", 2), ErrConfigLocked)
}

func TestStartRequiresPolicy(t *testing.T) {
	c := New(denom)
	require.ErrorIs(t, c.Start(0), ErrNoPolicyConfigured)

	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))
	require.ErrorIs(t, c.Start(0), ErrAlreadyStarted)
}

func TestEnglishBiddingFlow(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureEnglish(10, 0, 10))
	require.NoError(t, c.Start(0))

	// Purchase path is disallowed in english mode.
	_, err := c.Purchase(id, vault.Funds(denom, 100), "", 1)
	require.ErrorIs(t, err, ErrAuctionNotPurchasable)

	// Below the opening minimum.
	_, err = c.Bid(id, vault.Funds(denom, 9), 1)
	require.ErrorIs(t, err, ErrBidTooLow)

	tok10, err := c.Bid(id, vault.Funds(denom, 10), 1)
	require.NoError(t, err)

	// Tie is rejected, favoring the earlier bidder.
	_, err = c.Bid(id, vault.Funds(denom, 10), 2)
	require.ErrorIs(t, err, ErrBidTooLow)

	tok12, err := c.Bid(id, vault.Funds(denom, 12), 2)
	require.NoError(t, err)
	require.NotEqual(t, tok10, tok12)

	// Outbid under the new high is rejected.
	_, err = c.Bid(id, vault.Funds(denom, 11), 3)
	require.ErrorIs(t, err, ErrBidTooLow)

	// The outbid party recovers exactly their escrow.
	items, funds, err := c.Withdraw(tok10)
	require.NoError(t, err)
	require.Empty(t, items)
	require.EqualValues(t, 10, funds.Amount())

	// A claimed credential is dead.
	_, _, err = c.Withdraw(tok10)
	require.ErrorIs(t, err, ErrNothingToWithdraw)

	// Too early to close.
	_, err = c.CloseAuction(5)
	require.ErrorIs(t, err, ErrTooEarlyToClose)

	res, err := c.CloseAuction(11)
	require.NoError(t, err)
	require.Equal(t, []string{id}, res.ResolvedItems)
	require.EqualValues(t, 12, c.AmountToCollect())
	require.False(t, c.ListInventory()[id].Available)

	// Winner claims the item, no currency.
	items, funds, err = c.Withdraw(tok12)
	require.NoError(t, err)
	require.Equal(t, []string{id}, items)
	require.EqualValues(t, 0, funds.Amount())
}

func TestEnglishCloseConvertsToFixedFallback(t *testing.T) {
	c := New(denom)
	sold := mintOne(t, c)
	unsold := mintOne(t, c)
	require.NoError(t, c.ConfigureEnglish(10, 0, 10))
	require.NoError(t, c.Start(0))

	_, err := c.Bid(sold, vault.Funds(denom, 15), 1)
	require.NoError(t, err)

	_, err = c.CloseAuction(11)
	require.NoError(t, err)

	// Unsold items are now purchasable at the closing valuation.
	policy := c.Policy()
	require.Equal(t, pricing.Fixed, policy.Kind)
	require.EqualValues(t, 10, policy.Price)

	change, err := c.Purchase(unsold, vault.Funds(denom, 10), "", 12)
	require.NoError(t, err)
	require.EqualValues(t, 0, change.Amount())

	// A second close performs the final sweep.
	res, err := c.CloseAuction(13)
	require.NoError(t, err)
	require.Empty(t, res.UnsoldItems)
	require.EqualValues(t, 25, res.Proceeds.Amount())
	require.Equal(t, models.AuctionClosed, c.Status())
}

func TestEnglishBidOnSoldOrUnknownItem(t *testing.T) {
	c := New(denom)
	mintOne(t, c)
	require.NoError(t, c.ConfigureEnglish(10, 0, 10))
	require.NoError(t, c.Start(0))

	_, err := c.Bid("no-such-item", vault.Funds(denom, 10), 1)
	require.ErrorIs(t, err, ErrItemUnavailable)
}

func TestBidOnNonEnglishAuction(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))

	_, err := c.Bid(id, vault.Funds(denom, 100), 0)
	require.ErrorIs(t, err, ErrAuctionNotBiddable)
}

func TestDutchCloseSweepsInventory(t *testing.T) {
	c := New(denom)
	a := mintOne(t, c)
	b := mintOne(t, c)
	require.NoError(t, c.ConfigureDutch(11, 1, 0, 10))
	require.NoError(t, c.Start(0))

	_, err := c.Purchase(a, vault.Funds(denom, 11), "", 0)
	require.NoError(t, err)

	res, err := c.CloseAuction(3)
	require.NoError(t, err)
	require.Equal(t, []string{b}, res.UnsoldItems)
	require.EqualValues(t, 11, res.Proceeds.Amount())
	require.Equal(t, models.AuctionClosed, c.Status())
	require.EqualValues(t, 0, c.AmountToCollect())
	require.False(t, c.ListInventory()[b].Available)

	_, err = c.CloseAuction(4)
	require.ErrorIs(t, err, ErrAuctionClosed)

	_, err = c.Purchase(b, vault.Funds(denom, 100), "", 4)
	require.ErrorIs(t, err, ErrAuctionClosed)
}

func TestCloseBeforeStart(t *testing.T) {
	c := New(denom)
	_, err := c.CloseAuction(0)
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestCollectPaymentsResets(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))

	_, err := c.Purchase(id, vault.Funds(denom, 10), "", 0)
	require.NoError(t, err)

	out := c.CollectPayments()
	require.EqualValues(t, 10, out.Amount())
	require.EqualValues(t, 0, c.AmountToCollect())

	again := c.CollectPayments()
	require.EqualValues(t, 0, again.Amount())
}

func TestWhitelistGate(t *testing.T) {
	c := New(denom)
	items := []string{mintOne(t, c), mintOne(t, c), mintOne(t, c)}
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.ConfigureWhitelist("vip", 2))
	require.NoError(t, c.Start(0))

	tok, err := c.IssueWhitelistCredential()
	require.NoError(t, err)

	// Credential is mandatory once the gate is configured.
	_, err = c.Purchase(items[0], vault.Funds(denom, 10), "", 0)
	require.ErrorIs(t, err, ErrWhitelistRequired)

	// Unknown tokens are not of the gating class.
	_, err = c.Purchase(items[0], vault.Funds(denom, 10), "forged", 0)
	require.ErrorIs(t, err, ErrWhitelistMismatch)

	for i := 0; i < 2; i++ {
		_, err = c.Purchase(items[i], vault.Funds(denom, 10), tok, 0)
		require.NoError(t, err)
	}

	_, err = c.Purchase(items[2], vault.Funds(denom, 10), tok, 0)
	require.ErrorIs(t, err, ErrWhitelistExhausted)

	// A failed gate check does not consume the item.
	require.True(t, c.ListInventory()[items[2]].Available)
}

func TestWhitelistFailedPurchaseDoesNotCountUse(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.ConfigureWhitelist("vip", 1))
	require.NoError(t, c.Start(0))

	tok, err := c.IssueWhitelistCredential()
	require.NoError(t, err)

	_, err = c.Purchase(id, vault.Funds(denom, 1), tok, 0)
	require.ErrorIs(t, err, ErrInsufficientPayment)

	// The single use is still available.
	_, err = c.Purchase(id, vault.Funds(denom, 10), tok, 0)
	require.NoError(t, err)
}

func TestMintAfterCloseRejected(t *testing.T) {
	c := New(denom)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))
	_, err := c.CloseAuction(0)
	require.NoError(t, err)

	_, err = c.Mint(models.ItemInfo{Name: "late"})
	require.ErrorIs(t, err, ErrAuctionClosed)
}

func TestOutbidEventCarriesNoCredential(t *testing.T) {
	c := New(denom)
	var payloads []string
	c.SetEmitter(func(ev models.Event) {
		raw, err := json.Marshal(ev)
		require.NoError(t, err)
		payloads = append(payloads, string(raw))
	})

	id := mintOne(t, c)
	require.NoError(t, c.ConfigureEnglish(10, 0, 10))
	require.NoError(t, c.Start(0))

	outbid, err := c.Bid(id, vault.Funds(denom, 10), 1)
	require.NoError(t, err)
	winner, err := c.Bid(id, vault.Funds(denom, 12), 2)
	require.NoError(t, err)

	// Events fan out to every observer; a token in a payload would let an
	// observer claim the refund of the bidder it belongs to.
	require.NotEmpty(t, payloads)
	for _, raw := range payloads {
		require.NotContains(t, raw, string(outbid))
		require.NotContains(t, raw, string(winner))
	}

	// The refund stays claimable by the token holder alone.
	_, funds, err := c.Withdraw(outbid)
	require.NoError(t, err)
	require.EqualValues(t, 10, funds.Amount())
}

func TestCloseEventListsMovedItems(t *testing.T) {
	c := New(denom)
	var closes []models.Event
	c.SetEmitter(func(ev models.Event) {
		if ev.Type == models.EventAuctionClosed {
			closes = append(closes, ev)
		}
	})

	sold := mintOne(t, c)
	leftover := mintOne(t, c)
	require.NoError(t, c.ConfigureEnglish(10, 0, 10))
	require.NoError(t, c.Start(0))
	_, err := c.Bid(sold, vault.Funds(denom, 10), 1)
	require.NoError(t, err)

	_, err = c.CloseAuction(10)
	require.NoError(t, err)
	require.Len(t, closes, 1)
	require.Equal(t, []string{sold}, closes[0].ItemIDs)

	_, err = c.CloseAuction(11)
	require.NoError(t, err)
	require.Len(t, closes, 2)
	require.Equal(t, []string{leftover}, closes[1].ItemIDs)
}

func TestWithdrawLeavesWhitelistCredentialLive(t *testing.T) {
	c := New(denom)
	id := mintOne(t, c)
	require.NoError(t, c.ConfigureWhitelist("vip", 1))
	tok, err := c.IssueWhitelistCredential()
	require.NoError(t, err)
	require.NoError(t, c.ConfigureFixed(10))
	require.NoError(t, c.Start(0))

	// Nothing is owed to the credential; the failed claim must not burn it.
	_, _, err = c.Withdraw(tok)
	require.ErrorIs(t, err, ErrNothingToWithdraw)

	_, err = c.Purchase(id, vault.Funds(denom, 10), tok, 0)
	require.NoError(t, err)
}

func TestEventsEmitted(t *testing.T) {
	c := New(denom)
	var types []models.EventType
	c.SetEmitter(func(ev models.Event) {
		require.NotEmpty(t, ev.EventID)
		require.Equal(t, denom, ev.Denom)
		types = append(types, ev.Type)
	})

	id := mintOne(t, c)
	require.NoError(t, c.ConfigureEnglish(10, 0, 10))
	require.NoError(t, c.Start(0))

	tok1, err := c.Bid(id, vault.Funds(denom, 10), 1)
	require.NoError(t, err)
	_, err = c.Bid(id, vault.Funds(denom, 12), 2)
	require.NoError(t, err)

	_, _, err = c.Withdraw(tok1)
	require.NoError(t, err)

	_, err = c.CloseAuction(11)
	require.NoError(t, err)
	c.CollectPayments()

	require.Equal(t, []models.EventType{
		models.EventItemMinted,
		models.EventAuctionStarted,
		models.EventBidPlaced,
		models.EventBidderOutbid,
		models.EventBidPlaced,
		models.EventWithdrawn,
		models.EventAuctionClosed,
		models.EventPaymentsCollected,
	}, types)
}
