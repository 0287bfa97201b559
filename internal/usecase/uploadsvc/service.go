package uploadsvc

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/upload_lite/internal/models"
)

// Service объединяет операции по загрузке файлов и обслуживанию дерева загрузок.
type Service interface {
	UploadFile(ctx context.Context, req models.UploadRequest) (models.UploadResult, error)
	Sweep(ctx context.Context) (int, error)
	StartSweeper(every time.Duration) func()
	Usage(ctx context.Context) (int64, error)
}

type Deps struct {
	// StorageRoot — корень, который отдаётся статикой под StaticPrefix.
	StorageRoot   string
	UploadDir     string
	StaticPrefix  string
	RetentionDays int
	Now           func() time.Time
	NewID         func() (string, error)
}

type Files struct {
	Deps
}

// New конструирует сервис загрузки, подставляя часы и генератор имён по умолчанию.
func New(deps Deps) *Files {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = newUUIDv7
	}
	if deps.StaticPrefix == "" {
		deps.StaticPrefix = "/"
	}
	return &Files{Deps: deps}
}

var _ Service = (*Files)(nil)

// basePath — корень дерева загрузок: <storage_root>/<upload_dir>.
func (s *Files) basePath() string {
	return filepath.Join(s.StorageRoot, s.UploadDir)
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
