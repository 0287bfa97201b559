package httperrors

import (
	"errors"
	"net/http"

	"github.com/yourname/upload_lite/internal/models"
	"github.com/yourname/upload_lite/pkg/logger"
)

// Status сопоставляет ошибку сервиса HTTP-статусу.
func Status(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnsupportedMediaType):
		return http.StatusNotAcceptable
	case errors.Is(err, models.ErrTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func Write(w http.ResponseWriter, err error) {
	code := Status(err)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), code)
}
