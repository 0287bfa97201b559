package resthttp

import (
	"net/http"

	"github.com/yourname/upload_lite/pkg/httperrors"
	"github.com/yourname/upload_lite/pkg/logger"
)

// gcOnce вручную запускает удаление устаревших дневных разделов.
func (s *Server) gcOnce(w http.ResponseWriter, r *http.Request) {
	n, err := s.FilesService.Sweep(r.Context())
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	logger.Info("manual retention sweep", "removed", n)
	w.WriteHeader(http.StatusNoContent)
}
