package uploadsvc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourname/upload_lite/internal/models"
)

const dayLayout = "2006/01/02"

// dayDir вычисляет <base>/<category>/YYYY/MM/DD на текущую дату.
func (s *Files) dayDir(category string) (string, error) {
	cat, err := cleanCategory(category)
	if err != nil {
		return "", err
	}
	day := filepath.FromSlash(s.Now().Format(dayLayout))
	return filepath.Join(s.basePath(), cat, day), nil
}

// cleanCategory не даёт категории выйти за пределы дерева загрузок.
// Категория, которую Clean или TrimSpace меняют, отклоняется: allow-list
// выбирается по той же строке, под которой файл ляжет на диск.
func cleanCategory(category string) (string, error) {
	if category == "" {
		return "", nil
	}
	if strings.HasPrefix(category, "/") || filepath.IsAbs(category) {
		return "", fmt.Errorf("%w: category %q must be relative", models.ErrInvalidInput, category)
	}

	cleaned := filepath.Clean(filepath.FromSlash(category))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: category %q escapes upload dir", models.ErrInvalidInput, category)
	}
	if cleaned == "." || filepath.ToSlash(cleaned) != category || strings.TrimSpace(category) != category {
		return "", fmt.Errorf("%w: category %q is not canonical", models.ErrInvalidInput, category)
	}
	return cleaned, nil
}

// ensureDir создаёт сначала родителя, потом сам каталог; существующий каталог — успех.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if parent := filepath.Dir(dir); parent != dir {
		if err = ensureDir(parent); err != nil {
			return err
		}
	}

	err = os.Mkdir(dir, 0o755)
	if errors.Is(err, fs.ErrNotExist) {
		// родителя успел удалить sweeper между Stat и Mkdir, одна повторная попытка
		if err = ensureDir(filepath.Dir(dir)); err == nil {
			err = os.Mkdir(dir, 0o755)
		}
	}
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	return nil
}
