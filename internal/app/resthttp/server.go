package resthttp

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/yourname/upload_lite/internal/config"
	"github.com/yourname/upload_lite/internal/usecase/uploadsvc"
)

type Server struct {
	FilesService uploadsvc.Service
	Cfg          *config.Config
}

// NewServer конструктор
func NewServer(cfg *config.Config) (http.Handler, *Server, error) {
	srv := &Server{
		FilesService: buildFileService(cfg),
		Cfg:          cfg,
	}

	return srv.routes(), srv, nil
}

func buildFileService(cfg *config.Config) *uploadsvc.Files {
	return uploadsvc.New(uploadsvc.Deps{
		StorageRoot:   cfg.StorageRoot,
		UploadDir:     cfg.UploadDir,
		StaticPrefix:  cfg.StaticPrefix,
		RetentionDays: cfg.RetentionDays,
	})
}

// routes регистрирует загрузку, статику, health и админские ручки.
func (s *Server) routes() http.Handler {
	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(middleware.RealIP)
	rtr.Use(accessLog)
	rtr.Use(middleware.Recoverer)
	rtr.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	rtr.Group(func(r chi.Router) {
		r.Use(rateLimit(s.Cfg.UploadQPS))
		r.Post("/upload", s.postUpload)
		r.Post("/upload/{category}", s.postUpload)
		r.Post("/uploads", s.postUploads)
		r.Post("/uploads/{category}", s.postUploads)
	})

	rtr.Get("/health", s.health)
	rtr.Post("/admin/gc", s.gcOnce)
	rtr.Get("/admin/config", func(w http.ResponseWriter, r *http.Request) { _ = json.NewEncoder(w).Encode(s.Cfg) })

	prefix := strings.TrimRight(s.Cfg.StaticPrefix, "/")
	rtr.Mount(prefix+"/", http.StripPrefix(prefix, http.FileServer(noListFS{http.Dir(s.Cfg.StorageRoot)})))

	return rtr
}

// noListFS отдаёт только файлы: листинг каталогов загрузок закрыт.
type noListFS struct {
	http.FileSystem
}

func (fsys noListFS) Open(name string) (http.File, error) {
	f, err := fsys.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
