package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"auctionhouse/internal/auction"
	"auctionhouse/internal/credential"
	"auctionhouse/internal/epoch"
	"auctionhouse/internal/models"
	"auctionhouse/internal/store"
	"auctionhouse/internal/vault"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Engine  *auction.Controller
	Clock   epoch.Clock
	Journal *store.Store // optional, nil without a DB
}

func NewHandler(engine *auction.Controller, clock epoch.Clock, journal *store.Store) *Handler {
	return &Handler{Engine: engine, Clock: clock, Journal: journal}
}

type fixedPricingRequest struct {
	Price int64 `json:"price"`
}

type dutchPricingRequest struct {
	InitialPrice     int64   `json:"initialPrice"`
	DecreasePerEpoch int64   `json:"decreasePerEpoch"`
	StartEpoch       *uint64 `json:"startEpoch,omitempty"`
	DurationEpochs   uint64  `json:"durationEpochs"`
}

type englishPricingRequest struct {
	MinOpeningBid  int64   `json:"minOpeningBid"`
	StartEpoch     *uint64 `json:"startEpoch,omitempty"`
	DurationEpochs uint64  `json:"durationEpochs"`
}

type whitelistRequest struct {
	Class   string `json:"class"`
	MaxUses int    `json:"maxUses"`
}

type mintRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Metadata string `json:"metadata"`
}

type purchaseRequest struct {
	Amount         int64  `json:"amount"`
	WhitelistToken string `json:"whitelistToken,omitempty"`
}

type bidRequest struct {
	Amount int64 `json:"amount"`
}

type claimRequest struct {
	Token string `json:"token"`
}

func (h *Handler) ConfigureFixed(w http.ResponseWriter, r *http.Request) {
	var req fixedPricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.Engine.ConfigureFixed(req.Price); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"pricing": "fixed"})
}

func (h *Handler) ConfigureDutch(w http.ResponseWriter, r *http.Request) {
	var req dutchPricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	start := h.Clock.Now()
	if req.StartEpoch != nil {
		start = *req.StartEpoch
	}
	if err := h.Engine.ConfigureDutch(req.InitialPrice, req.DecreasePerEpoch, start, req.DurationEpochs); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pricing": "dutch", "startEpoch": start})
}

func (h *Handler) ConfigureEnglish(w http.ResponseWriter, r *http.Request) {
	var req englishPricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	start := h.Clock.Now()
	if req.StartEpoch != nil {
		start = *req.StartEpoch
	}
	if err := h.Engine.ConfigureEnglish(req.MinOpeningBid, start, req.DurationEpochs); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pricing": "english", "startEpoch": start})
}

func (h *Handler) ConfigureWhitelist(w http.ResponseWriter, r *http.Request) {
	var req whitelistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Class == "" {
		writeError(w, http.StatusBadRequest, "missing gating class")
		return
	}
	if err := h.Engine.ConfigureWhitelist(credential.Class(req.Class), req.MaxUses); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"class": req.Class, "maxUses": req.MaxUses})
}

func (h *Handler) IssueWhitelistCredential(w http.ResponseWriter, r *http.Request) {
	tok, err := h.Engine.IssueWhitelistCredential()
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": string(tok)})
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Start(h.Clock.Now()); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(h.Engine.Status())})
}

func (h *Handler) Mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	id, err := h.Engine.Mint(models.ItemInfo{
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if h.Journal != nil {
		if jErr := h.Journal.UpsertItem(r.Context(), id, models.ItemInfo{
			Available: true,
			Name:      req.Name,
			ImageURL:  req.ImageURL,
			Metadata:  req.Metadata,
		}); jErr != nil {
			// Journal lag is tolerated; the engine state is authoritative.
			writeJSON(w, http.StatusOK, map[string]string{"itemId": id, "journal": "lagging"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"itemId": id})
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	payment := vault.Funds(h.Engine.Denom(), req.Amount)
	change, err := h.Engine.Purchase(itemID, payment, credential.Token(req.WhitelistToken), h.Clock.Now())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if h.Journal != nil {
		_ = h.Journal.MarkItemUnavailable(r.Context(), itemID)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"itemId": itemID,
		"change": change.Amount(),
		"denom":  change.Denom(),
	})
}

func (h *Handler) Bid(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	payment := vault.Funds(h.Engine.Denom(), req.Amount)
	tok, err := h.Engine.Bid(itemID, payment, h.Clock.Now())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"bidderToken": string(tok)})
}

func (h *Handler) CloseAuction(w http.ResponseWriter, r *http.Request) {
	res, err := h.Engine.CloseAuction(h.Clock.Now())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if h.Journal != nil {
		for _, id := range res.ResolvedItems {
			_ = h.Journal.MarkItemUnavailable(r.Context(), id)
		}
		for _, id := range res.UnsoldItems {
			_ = h.Journal.MarkItemUnavailable(r.Context(), id)
		}
	}
	resp := map[string]any{
		"resolvedItems": res.ResolvedItems,
		"unsoldItems":   res.UnsoldItems,
		"status":        string(h.Engine.Status()),
	}
	if res.Proceeds != nil {
		resp["proceeds"] = res.Proceeds.Amount()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	items, funds, err := h.Engine.Withdraw(credential.Token(req.Token))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"amount": funds.Amount(),
		"denom":  funds.Denom(),
	})
}

func (h *Handler) CollectPayments(w http.ResponseWriter, r *http.Request) {
	out := h.Engine.CollectPayments()
	writeJSON(w, http.StatusOK, map[string]any{
		"amount": out.Amount(),
		"denom":  out.Denom(),
	})
}

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.ListInventory())
}

func (h *Handler) AuctionStatus(w http.ResponseWriter, r *http.Request) {
	now := h.Clock.Now()
	policy := h.Engine.Policy()
	resp := map[string]any{
		"status":          string(h.Engine.Status()),
		"pricing":         policy.Kind.String(),
		"epoch":           now,
		"amountToCollect": h.Engine.AmountToCollect(),
	}
	if price, ok := policy.CurrentPrice(now); ok {
		resp["currentPrice"] = price
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h.Journal == nil {
		writeError(w, http.StatusNotFound, "event journal not configured")
		return
	}
	events, err := h.Journal.ListEvents(r.Context(), 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list events failed")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auction.ErrConfigLocked),
		errors.Is(err, auction.ErrAlreadyStarted),
		errors.Is(err, auction.ErrNotStarted),
		errors.Is(err, auction.ErrAuctionNotPurchasable),
		errors.Is(err, auction.ErrAuctionNotBiddable),
		errors.Is(err, auction.ErrTooEarlyToClose):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auction.ErrAuctionClosed):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, auction.ErrNoPolicyConfigured):
		writeError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, auction.ErrInsufficientPayment),
		errors.Is(err, auction.ErrBidTooLow):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, auction.ErrWrongPaymentDenom):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auction.ErrItemUnavailable),
		errors.Is(err, auction.ErrUnknownItem),
		errors.Is(err, auction.ErrNothingToWithdraw):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auction.ErrWhitelistRequired),
		errors.Is(err, auction.ErrWhitelistMismatch),
		errors.Is(err, auction.ErrWhitelistExhausted):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auction.ErrDuplicateItem):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
