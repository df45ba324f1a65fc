package storefront

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"authorstore/internal/cart"
	"authorstore/internal/catalog"
	"authorstore/internal/checkout"
	apperrors "authorstore/internal/http/errors"
	"authorstore/internal/metrics"
	"authorstore/internal/session"
)

type Handler struct {
	catalog  catalog.Service
	sessions *session.Registry[*Session]
	relay    checkout.Relay
	limit    func(http.Handler) http.Handler
	logger   *zap.Logger
}

// NewHandler wires the flow endpoints. limit, when non-nil, guards checkout.
func NewHandler(books catalog.Service, sessions *session.Registry[*Session], relay checkout.Relay, limit func(http.Handler) http.Handler, logger *zap.Logger) *Handler {
	return &Handler{
		catalog:  books,
		sessions: sessions,
		relay:    relay,
		limit:    limit,
		logger:   logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.HandleGetSession)
		r.Post("/select", h.HandleSelect)
		r.Post("/back", h.HandleBack)
		r.Post("/cart", h.HandleAddToCart)
		r.Delete("/cart/{index}", h.HandleRemoveFromCart)
		r.Post("/return-home", h.HandleReturnHome)
		r.Group(func(r chi.Router) {
			if h.limit != nil {
				r.Use(h.limit)
			}
			r.Post("/checkout", h.HandleCheckout)
		})
	})
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	apperrors.JSON(w, http.StatusOK, h.sessions.FromRequest(w, r).Snapshot())
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID string `json:"bookId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}
	id, err := uuid.Parse(req.BookID)
	if err != nil {
		apperrors.BadRequestError(w, r, err, "invalid book ID")
		return
	}

	book, err := h.catalog.GetBook(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	s := h.sessions.FromRequest(w, r)
	if err := s.Select(*book); err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	if err := s.Back(); err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Quantity int `json:"quantity"`
	}{Quantity: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}

	s := h.sessions.FromRequest(w, r)
	if err := s.AddToCart(req.Quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		apperrors.BadRequestError(w, r, err, "invalid cart index")
		return
	}

	s := h.sessions.FromRequest(w, r)
	if err := s.RemoveFromCart(index); err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}

	s := h.sessions.FromRequest(w, r)
	if err := s.SubmitOrder(r.Context(), form, h.relay); err != nil {
		h.writeError(w, r, err)
		return
	}
	metrics.OrdersSubmittedTotal.Inc()
	apperrors.JSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleReturnHome(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	if err := s.ReturnHome(); err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *checkout.ValidationError
	switch {
	case errors.As(err, &ve):
		for _, field := range ve.FieldNames() {
			metrics.CheckoutValidationFailuresTotal.WithLabelValues(field).Inc()
		}
		apperrors.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  checkout.AlertMissingFields,
			"fields": ve.Fields,
		})
	case errors.Is(err, ErrEmptyCart):
		apperrors.Error(w, http.StatusUnprocessableEntity, checkout.AlertEmptyCart)
	case errors.Is(err, ErrRelay):
		metrics.OperationErrorsTotal.WithLabelValues("relay_submit").Inc()
		h.logger.Error("order relay failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		apperrors.Error(w, http.StatusBadGateway, checkout.AlertRelayFailure)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSubmissionInFlight):
		apperrors.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrIndexOutOfRange):
		apperrors.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		apperrors.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrLoading):
		apperrors.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		apperrors.InternalError(w, r, err, "storefront request failed")
	}
}
