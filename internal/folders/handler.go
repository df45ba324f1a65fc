package folders

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "authorstore/internal/http/errors"
	"authorstore/internal/identity"
	"authorstore/internal/session"
)

const (
	maxUploadBytes  = 64 << 20
	maxMemoryBytes  = 8 << 20
	uploadFormField = "files"
)

type Handler struct {
	managers *session.Registry[*Manager]
	logger   *zap.Logger
}

func NewHandler(managers *session.Registry[*Manager], logger *zap.Logger) *Handler {
	return &Handler{managers: managers, logger: logger}
}

// Register mounts the folder routes. Callers are expected to wrap r with the
// identity gate and a photographer-only guard.
func (h *Handler) Register(r chi.Router) {
	r.Route("/folders", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Patch("/{id}", h.HandleRename)
		r.Delete("/{id}", h.HandleRemove)
		r.Post("/{id}/files", h.HandleUpload)
		r.Get("/{id}/progress", h.HandleProgress)
	})
}

func (h *Handler) manager(w http.ResponseWriter, r *http.Request) (*Manager, bool) {
	u, ok := identity.FromContext(r.Context())
	if !ok {
		apperrors.Error(w, http.StatusUnauthorized, "not signed in")
		return nil, false
	}
	return h.managers.Get(u.Email), true
}

func folderID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		apperrors.BadRequestError(w, r, err, "invalid folder ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	folders, err := m.Folders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, folders)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	f, err := m.Create(r.Context())
	if err != nil && !errors.Is(err, ErrPersist) {
		h.writeError(w, r, err)
		return
	}
	h.writeMutation(w, r, http.StatusCreated, f, err)
}

func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	id, ok := folderID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}

	f, err := m.Rename(r.Context(), id, req.Name)
	if err != nil && !errors.Is(err, ErrPersist) {
		h.writeError(w, r, err)
		return
	}
	h.writeMutation(w, r, http.StatusOK, f, err)
}

func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	id, ok := folderID(w, r)
	if !ok {
		return
	}
	err := m.Remove(r.Context(), id)
	if err != nil && !errors.Is(err, ErrPersist) {
		h.writeError(w, r, err)
		return
	}
	h.writeMutation(w, r, http.StatusOK, map[string]int{"removed": id}, err)
}

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	id, ok := folderID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		apperrors.BadRequestError(w, r, err, "invalid multipart upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadFormField]
	if len(headers) == 0 {
		apperrors.Error(w, http.StatusBadRequest, "no files in upload")
		return
	}

	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			apperrors.InternalError(w, r, err, "error opening uploaded file")
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		uploads = append(uploads, Upload{Name: fh.Filename, Size: fh.Size, Body: f})
	}

	folder, err := m.Attach(r.Context(), id, uploads)
	if err != nil && (errors.Is(err, ErrUpload) || !errors.Is(err, ErrPersist)) {
		h.writeError(w, r, err)
		return
	}
	h.writeMutation(w, r, http.StatusOK, folder, err)
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	id, ok := folderID(w, r)
	if !ok {
		return
	}
	apperrors.JSON(w, http.StatusOK, map[string]int{"folderId": id, "progress": m.Progress(id)})
}

// writeMutation answers a locally applied change. A persistence failure is
// reported alongside the result since the local state has already moved on.
func (h *Handler) writeMutation(w http.ResponseWriter, r *http.Request, status int, result any, persistErr error) {
	if persistErr != nil {
		apperrors.LogError(r, "folder change not saved", persistErr)
		apperrors.JSON(w, http.StatusBadGateway, map[string]any{
			"error":  ErrPersist.Error(),
			"result": result,
		})
		return
	}
	apperrors.JSON(w, status, result)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		apperrors.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidName):
		apperrors.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrUploadInFlight):
		apperrors.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrLoad):
		apperrors.LogError(r, "error loading folders", err)
		apperrors.Error(w, http.StatusBadGateway, ErrLoad.Error())
	case errors.Is(err, ErrUpload):
		apperrors.LogError(r, "file upload failed", err)
		apperrors.Error(w, http.StatusBadGateway, ErrUpload.Error())
	default:
		apperrors.InternalError(w, r, err, "folder operation failed")
	}
}
