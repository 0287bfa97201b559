package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yourname/upload_lite/internal/app/resthttp"
	"github.com/yourname/upload_lite/internal/config"
	"github.com/yourname/upload_lite/internal/models"
)

type part struct {
	field string
	name  string
	data  []byte
}

func newRest(t *testing.T, mutate func(*config.Config)) (*httptest.Server, *config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.StorageRoot = filepath.Join(t.TempDir(), "public")
	cfg.Categories = map[string][]string{"avatars": {".png", ".jpg"}}
	if mutate != nil {
		mutate(cfg)
	}

	handler, _, err := resthttp.NewServer(cfg)
	if err != nil {
		t.Fatalf("new rest server: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, p := range parts {
		if p.name == "" {
			if err := mw.WriteField(p.field, string(p.data)); err != nil {
				t.Fatal(err)
			}
			continue
		}
		fw, err := mw.CreateFormFile(p.field, p.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = fw.Write(p.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

func post(t *testing.T, url string, parts ...part) (*http.Response, []byte) {
	t.Helper()
	body, contentType := multipartBody(t, parts...)
	resp, err := http.Post(url, contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func TestUploadSingleAndServeStatic(t *testing.T) {
	srv, _ := newRest(t, nil)
	payload := bytes.Repeat([]byte("0123456789abcdef"), 1024)

	resp, b := post(t, srv.URL+"/upload/avatars", part{field: "file", name: "Me.PNG", data: payload})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status %s: %s", resp.Status, b)
	}

	var got models.StoredFile
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
	if got.FileName != "Me.PNG" {
		t.Errorf("fileName = %q", got.FileName)
	}
	if !strings.HasPrefix(got.URL, "/static/uploads/avatars/") || !strings.HasSuffix(got.URL, ".png") {
		t.Fatalf("unexpected url %q", got.URL)
	}
	if !strings.Contains(got.URL, time.Now().Format("2006/")) {
		t.Errorf("url %q lacks date partition", got.URL)
	}

	resp, err := http.Get(srv.URL + got.URL)
	if err != nil {
		t.Fatal(err)
	}
	served, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !bytes.Equal(served, payload) {
		t.Fatalf("static fetch: status %s, %d bytes", resp.Status, len(served))
	}
}

func TestUploadRejectsExtension(t *testing.T) {
	srv, _ := newRest(t, nil)

	resp, b := post(t, srv.URL+"/upload/avatars", part{field: "file", name: "tool.exe", data: []byte("MZ")})
	if resp.StatusCode != http.StatusNotAcceptable {
		t.Fatalf("status %s: %s", resp.Status, b)
	}
	if !strings.Contains(string(b), ".png,.jpg") || !strings.Contains(string(b), ".exe") {
		t.Fatalf("body does not name allow-list and extension: %q", b)
	}
}

func TestUploadCategoryMustBeCanonical(t *testing.T) {
	srv, cfg := newRest(t, nil)

	for _, raw := range []string{"%20avatars", "avatars%20"} {
		t.Run(raw, func(t *testing.T) {
			resp, b := post(t, srv.URL+"/upload/"+raw, part{field: "file", name: "tool.exe", data: []byte("MZ")})
			if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusNotAcceptable {
				t.Fatalf("status %s: %s", resp.Status, b)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(cfg.StorageRoot, cfg.UploadDir, "avatars")); !os.IsNotExist(err) {
		t.Fatalf("file stored under avatars despite allow-list: %v", err)
	}
}

func TestUploadManyPreservesOrder(t *testing.T) {
	srv, _ := newRest(t, nil)
	names := []string{"a.txt", "b.csv", "c.pdf"}

	var parts []part
	for _, n := range names {
		parts = append(parts, part{field: "files", name: n, data: []byte(n)})
	}
	resp, b := post(t, srv.URL+"/uploads/docs", parts...)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %s: %s", resp.Status, b)
	}

	var got []models.StoredFile
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
	if len(got) != len(names) {
		t.Fatalf("got %d results", len(got))
	}
	for i, n := range names {
		if got[i].FileName != n || !strings.HasPrefix(got[i].URL, "/static/uploads/docs/") {
			t.Errorf("result[%d] = %+v", i, got[i])
		}
	}
}

func TestUploadManyEmpty(t *testing.T) {
	srv, _ := newRest(t, nil)

	resp, b := post(t, srv.URL+"/uploads", part{field: "note", data: []byte("nothing attached")})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %s: %s", resp.Status, b)
	}
	if strings.TrimSpace(string(b)) != `{"url":"","fileName":""}` {
		t.Fatalf("body = %s", b)
	}
}

func TestUploadBadRequests(t *testing.T) {
	srv, _ := newRest(t, nil)

	resp, b := post(t, srv.URL+"/upload", part{field: "other", name: "x.png", data: []byte("x")})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing file field: status %s: %s", resp.Status, b)
	}

	plain, err := http.Post(srv.URL+"/upload", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	_ = plain.Body.Close()
	if plain.StatusCode != http.StatusBadRequest {
		t.Errorf("non-multipart: status %s", plain.Status)
	}
}

func TestUploadTooLarge(t *testing.T) {
	srv, _ := newRest(t, func(c *config.Config) { c.MaxUploadBytes = 1024 })

	resp, b := post(t, srv.URL+"/upload", part{field: "file", name: "big.bin", data: make([]byte, 16<<10)})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %s: %s", resp.Status, b)
	}
}

func TestUploadRateLimited(t *testing.T) {
	srv, _ := newRest(t, func(c *config.Config) { c.UploadQPS = 1 })

	first, _ := post(t, srv.URL+"/upload", part{field: "file", name: "a.txt", data: []byte("a")})
	second, _ := post(t, srv.URL+"/upload", part{field: "file", name: "b.txt", data: []byte("b")})
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first status %s", first.Status)
	}
	if second.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second status %s, want 429", second.Status)
	}
}

func TestHealthGCAndListing(t *testing.T) {
	srv, cfg := newRest(t, func(c *config.Config) { c.RetentionDays = 1 })

	old := filepath.Join(cfg.StorageRoot, cfg.UploadDir, "avatars", "2001", "01", "01")
	if err := os.MkdirAll(old, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(old, "f.png"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	var stats struct {
		OK         bool  `json:"ok"`
		TotalBytes int64 `json:"total_bytes"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&stats)
	_ = resp.Body.Close()
	if !stats.OK || stats.TotalBytes != 5 {
		t.Fatalf("health = %+v", stats)
	}

	resp, err = http.Get(srv.URL + "/static/uploads/")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("directory listing status %s, want 404", resp.Status)
	}

	resp, err = http.Post(srv.URL+"/admin/gc", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("gc status %s", resp.Status)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expired partition not removed")
	}
}
