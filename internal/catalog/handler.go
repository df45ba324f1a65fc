package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "authorstore/internal/http/errors"
)

// loadingBody is what clients see while the catalog has no usable data.
var loadingBody = map[string]string{"status": "loading", "message": "טוען נתונים..."}

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the catalog routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/books", h.HandleListBooks)
	r.Get("/books/preview", h.HandlePreview)
	r.Get("/books/{id}", h.HandleGetBook)
}

func (h *Handler) HandleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, books)
}

func (h *Handler) HandleGetBook(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apperrors.BadRequestError(w, r, err, "invalid book ID")
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, book)
}

// HandlePreview renders a book passed inline as the bookData query parameter.
// An unparseable payload is logged and answered with the loading state.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("bookData")
	if raw == "" {
		apperrors.JSON(w, http.StatusOK, loadingBody)
		return
	}
	book, err := ParseBook(raw)
	if err != nil {
		h.logger.Warn("invalid bookData format", zap.Error(err))
		apperrors.JSON(w, http.StatusOK, loadingBody)
		return
	}
	apperrors.JSON(w, http.StatusOK, book)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrLoading):
		apperrors.JSON(w, http.StatusServiceUnavailable, loadingBody)
	case errors.Is(err, ErrNotFound):
		apperrors.Error(w, http.StatusNotFound, err.Error())
	default:
		apperrors.InternalError(w, r, err, "catalog lookup failed")
	}
}
