package resthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yourname/upload_lite/internal/models"
	"github.com/yourname/upload_lite/pkg/httperrors"
)

const (
	singleFileField = "file"
	manyFilesField  = "files"
	multipartMemory = 8 << 20
)

// postUpload принимает один файл из поля "file".
func (s *Server) postUpload(w http.ResponseWriter, r *http.Request) {
	s.upload(w, r, func(form *multipart.Form) (models.Payload, error) {
		headers := form.File[singleFileField]
		if len(headers) == 0 {
			return models.Payload{}, nil
		}
		fd, err := readPart(headers[0])
		if err != nil {
			return models.Payload{}, err
		}
		return models.SingleFile(fd), nil
	})
}

// postUploads принимает все файлы из поля "files" в порядке следования.
func (s *Server) postUploads(w http.ResponseWriter, r *http.Request) {
	s.upload(w, r, func(form *multipart.Form) (models.Payload, error) {
		headers := form.File[manyFilesField]
		files := make([]models.FileDescriptor, 0, len(headers))
		for _, h := range headers {
			fd, err := readPart(h)
			if err != nil {
				return models.Payload{}, err
			}
			files = append(files, fd)
		}
		return models.ManyFiles(files...), nil
	})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request, extract func(*multipart.Form) (models.Payload, error)) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		httperrors.Write(w, classifyParseError(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	payload, err := extract(r.MultipartForm)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	category := chi.URLParam(r, "category")
	res, err := s.FilesService.UploadFile(r.Context(), models.UploadRequest{
		Files:             payload,
		Category:          category,
		AllowedExtensions: s.Cfg.Extensions(category),
	})
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func readPart(h *multipart.FileHeader) (models.FileDescriptor, error) {
	f, err := h.Open()
	if err != nil {
		return models.FileDescriptor{}, fmt.Errorf("open part %q: %w", h.Filename, err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return models.FileDescriptor{}, fmt.Errorf("read part %q: %w", h.Filename, err)
	}

	return models.FileDescriptor{OriginalName: h.Filename, Buffer: buf}, nil
}

// classifyParseError отделяет превышение лимита тела от кривого multipart.
func classifyParseError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: %v", models.ErrTooLarge, err)
	}
	return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
}
