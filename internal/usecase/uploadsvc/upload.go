package uploadsvc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/yourname/upload_lite/internal/models"
	"github.com/yourname/upload_lite/pkg/logger"
)

// UploadFile раскладывает файлы по дневному разделу категории и возвращает их публичные URL.
func (s *Files) UploadFile(ctx context.Context, req models.UploadRequest) (models.UploadResult, error) {
	dir, err := s.dayDir(req.Category)
	if err != nil {
		return models.UploadResult{}, err
	}
	if err = ensureDir(dir); err != nil {
		return models.UploadResult{}, fmt.Errorf("ensure upload dir: %w", err)
	}

	allowed := normalizeExtensions(req.AllowedExtensions)

	switch {
	case req.Files.IsSingle():
		stored, err := s.storeOne(dir, req.Files.Files()[0], allowed)
		if err != nil {
			return models.UploadResult{}, err
		}
		return models.UploadResult{Single: &stored}, nil
	case req.Files.IsMany():
		return s.storeMany(ctx, dir, req.Files.Files(), allowed)
	default:
		return models.UploadResult{}, models.ErrInvalidInput
	}
}

// storeMany пишет файлы по порядку; первый отклонённый файл прерывает пачку,
// уже записанные файлы остаются на диске.
func (s *Files) storeMany(ctx context.Context, dir string, files []models.FileDescriptor, allowed []string) (models.UploadResult, error) {
	if len(files) == 0 {
		return models.UploadResult{Single: &models.StoredFile{}}, nil
	}

	out := make([]models.StoredFile, 0, len(files))
	for _, f := range files {
		if ctx.Err() != nil {
			return models.UploadResult{}, ctx.Err()
		}

		stored, err := s.storeOne(dir, f, allowed)
		if err != nil {
			return models.UploadResult{}, err
		}
		out = append(out, stored)
	}

	return models.UploadResult{Many: out}, nil
}

func (s *Files) storeOne(dir string, f models.FileDescriptor, allowed []string) (models.StoredFile, error) {
	ext := extensionOf(f.OriginalName)
	if err := checkExtension(ext, allowed); err != nil {
		logger.Warn("upload rejected", "file", f.OriginalName, "ext", ext)
		return models.StoredFile{}, err
	}

	id, err := s.NewID()
	if err != nil {
		return models.StoredFile{}, fmt.Errorf("generate file name: %w", err)
	}

	target := filepath.Join(dir, id+ext)
	if err = writeFile(target, f.Buffer); err != nil {
		return models.StoredFile{}, err
	}

	url, err := s.publicURL(target)
	if err != nil {
		return models.StoredFile{}, err
	}

	logger.Debug("file stored", "path", target, "url", url, "size", len(f.Buffer))
	return models.StoredFile{URL: url, FileName: f.OriginalName}, nil
}

// writeFile создаёт файл эксклюзивно: совпадение имени — ошибка, а не перезапись.
func writeFile(target string, data []byte) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if err = errors.Join(werr, cerr); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	return nil
}

// publicURL заменяет корень хранилища на статический префикс.
func (s *Files) publicURL(target string) (string, error) {
	rel, err := filepath.Rel(s.StorageRoot, target)
	if err != nil {
		return "", fmt.Errorf("resolve public url: %w", err)
	}
	return path.Join(s.StaticPrefix, filepath.ToSlash(rel)), nil
}
