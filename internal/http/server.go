package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	Router *chi.Mux
}

// NewServer wires the REST surface. Owner-only operations sit behind the
// ownerOnly gate, the stand-in for the external authorization collaborator;
// purchase, bid and withdraw are open to any caller.
func NewServer(handler *Handler, feed *Feed, ownerToken string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/auction/status", handler.AuctionStatus)
	r.Get("/auction/items", handler.ListInventory)
	r.Get("/auction/events", handler.ListEvents)
	r.Post("/auction/items/{itemId}/purchase", handler.Purchase)
	r.Post("/auction/items/{itemId}/bid", handler.Bid)
	r.Post("/auction/withdrawals/claim", handler.Withdraw)

	r.Route("/admin", func(r chi.Router) {
		r.Use(ownerOnly(ownerToken))
		r.Post("/pricing/fixed", handler.ConfigureFixed)
		r.Post("/pricing/dutch", handler.ConfigureDutch)
		r.Post("/pricing/english", handler.ConfigureEnglish)
		r.Post("/whitelist", handler.ConfigureWhitelist)
		r.Post("/whitelist/credentials", handler.IssueWhitelistCredential)
		r.Post("/start", handler.Start)
		r.Post("/mint", handler.Mint)
		r.Post("/close", handler.CloseAuction)
		r.Post("/collect", handler.CollectPayments)
	})

	if feed != nil {
		r.Get("/ws", feed.Serve)
	}

	return &Server{Router: r}
}

func ownerOnly(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-Owner-Token")
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "owner credential required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Owner-Token")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
