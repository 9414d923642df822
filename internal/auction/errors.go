package auction

import "errors"

var (
	ErrConfigLocked          = errors.New("configuration not allowed after start")
	ErrNotStarted            = errors.New("auction not started")
	ErrAlreadyStarted        = errors.New("auction already started")
	ErrAuctionClosed         = errors.New("auction closed")
	ErrNoPolicyConfigured    = errors.New("no pricing policy configured")
	ErrAuctionNotPurchasable = errors.New("auction has no purchase path")
	ErrAuctionNotBiddable    = errors.New("auction has no bidding path")
	ErrInsufficientPayment   = errors.New("payment below current price")
	ErrItemUnavailable       = errors.New("item unavailable or already sold")
	ErrDuplicateItem         = errors.New("item already minted")
	ErrUnknownItem           = errors.New("unknown item")
	ErrBidTooLow             = errors.New("bid below required threshold")
	ErrWhitelistRequired     = errors.New("whitelist credential required")
	ErrWhitelistMismatch     = errors.New("credential not of the gating class")
	ErrWhitelistExhausted    = errors.New("whitelist credential exhausted")
	ErrNothingToWithdraw     = errors.New("nothing to withdraw for credential")
	ErrTooEarlyToClose       = errors.New("auction end epoch not reached")
	ErrWrongPaymentDenom     = errors.New("payment in wrong denom")
)
