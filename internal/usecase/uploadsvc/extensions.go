package uploadsvc

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yourname/upload_lite/internal/models"
)

func extensionOf(name string) string {
	return strings.ToLower(filepath.Ext(filepath.Base(name)))
}

// normalizeExtensions приводит allow-list к виду ".ext" в нижнем регистре.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// checkExtension пропускает всё при пустом allow-list.
func checkExtension(ext string, allowed []string) error {
	if len(allowed) == 0 || slices.Contains(allowed, ext) {
		return nil
	}
	return fmt.Errorf("%w: allowed one of [%s], got %q", models.ErrUnsupportedMediaType, strings.Join(allowed, ","), ext)
}
