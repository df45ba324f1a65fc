package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// InternalError logs err with the request id and answers with a generic 500.
func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	zap.L().Error(message, zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
	JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// BadRequestError logs err at warn level and returns clientMessage to the caller.
func BadRequestError(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	zap.L().Warn("bad request", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
	JSON(w, http.StatusBadRequest, map[string]string{"error": clientMessage})
}

// Error writes a JSON error body with the given status without logging.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func LogError(r *http.Request, message string, err error) {
	zap.L().Error(message, zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
}

// JSON encodes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
