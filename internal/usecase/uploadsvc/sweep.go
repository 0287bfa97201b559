package uploadsvc

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yourname/upload_lite/pkg/logger"
)

// Sweep удаляет дневные разделы старше RetentionDays и возвращает их число.
func (s *Files) Sweep(ctx context.Context) (int, error) {
	if s.RetentionDays <= 0 {
		return 0, nil
	}

	now := s.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -s.RetentionDays)
	return sweepOnce(ctx, s.basePath(), cutoff)
}

// StartSweeper стартует периодическую очистку дерева загрузок.
func (s *Files) StartSweeper(every time.Duration) func() {
	if every <= 0 || s.RetentionDays <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				if n, err := s.Sweep(context.Background()); err != nil {
					logger.Error("retention sweep failed", "error", err)
				} else if n > 0 {
					logger.Info("retention sweep", "removed", n)
				}
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}

// sweepOnce находит разделы YYYY/MM/DD раньше cutoff, удаляет их и
// подчищает опустевшие каталоги месяца и года.
func sweepOnce(ctx context.Context, root string, cutoff time.Time) (int, error) {
	var expired []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() || p == root {
			return nil
		}

		day, ok := partitionDate(root, p)
		if !ok || !day.Before(cutoff) || hasSubdirs(p) {
			return nil
		}
		expired = append(expired, p)
		return filepath.SkipDir
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, p := range expired {
		if err := os.RemoveAll(p); err != nil {
			return removed, err
		}
		removed++

		// os.Remove не трогает непустые каталоги; гонку с параллельной
		// загрузкой в тот же месяц закрывает повтор в ensureDir.
		month := filepath.Dir(p)
		if os.Remove(month) == nil {
			_ = os.Remove(filepath.Dir(month))
		}
	}

	return removed, nil
}

// partitionDate разбирает три последних сегмента пути как дату.
func partitionDate(root, p string) (time.Time, bool) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return time.Time{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 3 {
		return time.Time{}, false
	}
	tail := strings.Join(parts[len(parts)-3:], "/")
	day, err := time.Parse(dayLayout, tail)
	if err != nil || day.Format(dayLayout) != tail {
		return time.Time{}, false
	}
	return day, true
}

func hasSubdirs(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			return true
		}
	}
	return false
}

// Usage суммирует размер всех файлов в дереве загрузок.
func (s *Files) Usage(ctx context.Context) (int64, error) {
	var total int64
	err := filepath.WalkDir(s.basePath(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}

	return total, nil
}
