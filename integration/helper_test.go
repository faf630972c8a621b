package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/iyhunko/platforma-manager/internal/export"
	httpAPI "github.com/iyhunko/platforma-manager/internal/http"
	"github.com/iyhunko/platforma-manager/internal/http/controller"
	"github.com/iyhunko/platforma-manager/internal/images"
	"github.com/iyhunko/platforma-manager/internal/repository/jsonfile"
	"github.com/iyhunko/platforma-manager/internal/service"
	"github.com/iyhunko/platforma-manager/internal/sheets"
)

// Stack is a fully wired catalog manager working on files in a temp directory.
type Stack struct {
	Dir       string
	StorePath string
	SitePath  string
	ImagesDir string
	Service   *service.CatalogService
	Router    *gin.Engine
}

// NewStack wires the service, file store, site writer and HTTP router around sheet.
func NewStack(t *testing.T, dir string, sheet sheets.Sheet) *Stack {
	t.Helper()
	s := &Stack{
		Dir:       dir,
		StorePath: filepath.Join(dir, "products.json"),
		SitePath:  filepath.Join(dir, "app.min.js"),
		ImagesDir: filepath.Join(dir, "img"),
	}

	projector := export.NewProjector("", "")
	opts := []service.Option{
		service.WithImages(images.NewLibrary(s.ImagesDir)),
		service.WithSiteExporter(export.NewSiteWriter(projector, s.SitePath)),
	}
	if sheet != nil {
		opts = append(opts, service.WithSheet(sheet))
	}
	s.Service = service.NewCatalogService(jsonfile.NewStore(s.StorePath), opts...)
	require.NoError(t, s.Service.Load(context.Background()))

	gin.SetMode(gin.TestMode)
	s.Router = httpAPI.InitRouter(gin.New(), httpAPI.Controllers{
		General:  controller.New(s.Service),
		Products: controller.NewProductController(s.Service, projector),
		Sync:     controller.NewSyncController(s.Service),
	})
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// FakeSheetsAPI serves the subset of the Sheets v4 values API the client uses.
type FakeSheetsAPI struct {
	mu       sync.Mutex
	rows     [][]string
	appended [][]string
	server   *httptest.Server
}

func NewFakeSheetsAPI(t *testing.T, rows [][]string) *FakeSheetsAPI {
	t.Helper()
	f := &FakeSheetsAPI{rows: rows}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeSheetsAPI) URL() string { return f.server.URL }

func (f *FakeSheetsAPI) SetRows(rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = rows
}

func (f *FakeSheetsAPI) Appended() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.appended...)
}

func (f *FakeSheetsAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case !strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/"):
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"unknown spreadsheet"}}`))
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"range": "Sheet1!A:K", "majorDimension": "ROWS", "values": f.rows})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var body struct {
			Values [][]string `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.appended = append(f.appended, body.Values...)
		f.rows = append(f.rows, body.Values...)
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"not found"}}`))
	}
}
