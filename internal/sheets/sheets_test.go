package sheets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Auth   string
	Body   map[string]any
}

func newSheetsServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: map[string]string{}, Auth: r.Header.Get("Authorization")}
		for k := range r.URL.Query() {
			rec.Query[k] = r.URL.Query().Get(k)
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestGoogleClient_GetAllRows(t *testing.T) {
	// given
	server, requests := newSheetsServer(t, http.StatusOK,
		`{"range":"Sheet1!A1:K3","majorDimension":"ROWS","values":[["ID","Order","Section","Title"],["1","1","home","Shirt"]]}`)
	client, err := sheets.NewGoogleClient(sheets.GoogleConfig{
		BaseURL:       server.URL,
		SpreadsheetID: "abc",
		APIKey:        "secret",
		Timeout:       time.Second,
	})
	require.NoError(t, err)

	// when
	rows, err := client.GetAllRows(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "Order", "Section", "Title"}, {"1", "1", "home", "Shirt"}}, rows)
	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v4/spreadsheets/abc/values/Sheet1!A:K", req.Path)
	assert.Equal(t, "secret", req.Query["key"])
}

func TestGoogleClient_AppendAndUpdate(t *testing.T) {
	server, requests := newSheetsServer(t, http.StatusOK, `{}`)
	client, err := sheets.NewGoogleClient(sheets.GoogleConfig{BaseURL: server.URL, SpreadsheetID: "abc", AccessToken: "token"})
	require.NoError(t, err)

	require.NoError(t, client.AppendRow(context.Background(), []string{"1", "1", "home", "Shirt"}))
	require.NoError(t, client.UpdateRow(context.Background(), 5, []string{"1", "2", "home", "Shirt"}))

	require.Len(t, *requests, 2)
	appendReq := (*requests)[0]
	assert.Equal(t, http.MethodPost, appendReq.Method)
	assert.Equal(t, "/v4/spreadsheets/abc/values/Sheet1!A:K:append", appendReq.Path)
	assert.Equal(t, "RAW", appendReq.Query["valueInputOption"])
	assert.Equal(t, "Bearer token", appendReq.Auth)
	assert.Equal(t, []any{[]any{"1", "1", "home", "Shirt"}}, appendReq.Body["values"])

	updateReq := (*requests)[1]
	assert.Equal(t, http.MethodPut, updateReq.Method)
	assert.Equal(t, "/v4/spreadsheets/abc/values/Sheet1!A5:D5", updateReq.Path)
	assert.Equal(t, "Sheet1!A5:D5", updateReq.Body["range"])
}

func TestGoogleClient_ReturnsRemoteError(t *testing.T) {
	server, _ := newSheetsServer(t, http.StatusForbidden, `{"error":{"message":"denied"}}`)
	client, err := sheets.NewGoogleClient(sheets.GoogleConfig{BaseURL: server.URL, SpreadsheetID: "abc"})
	require.NoError(t, err)

	_, err = client.GetAllRows(context.Background())

	assert.ErrorIs(t, err, sheets.ErrRemote)
	assert.Contains(t, err.Error(), "denied")
}

func TestNewGoogleClient_RequiresSpreadsheetID(t *testing.T) {
	_, err := sheets.NewGoogleClient(sheets.GoogleConfig{})

	assert.ErrorIs(t, err, sheets.ErrNotConfigured)
}

func TestRowRange(t *testing.T) {
	r, err := sheets.RowRange("Products", 3, 11)
	require.NoError(t, err)
	assert.Equal(t, "Products!A3:K3", r)

	_, err = sheets.RowRange("Products", 0, 11)
	assert.ErrorIs(t, err, sheets.ErrInvalidRow)

	assert.Equal(t, "My Sheet", sheets.SheetName("'My Sheet'!A:K"))
	assert.Equal(t, "Sheet1", sheets.SheetName("Sheet1"))
}

func TestWorkbook(t *testing.T) {
	// given
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.xlsx")
	wb, err := sheets.NewWorkbook(path, "Products")
	require.NoError(t, err)

	// when
	empty, err := wb.GetAllRows(ctx)
	require.NoError(t, err)
	require.NoError(t, wb.AppendRow(ctx, model.SheetHeaders))
	require.NoError(t, wb.AppendRow(ctx, []string{"1", "1", "home", "Shirt"}))
	require.NoError(t, wb.AppendRow(ctx, []string{"2", "2", "home", "Pants"}))
	require.NoError(t, wb.UpdateRow(ctx, 2, []string{"1", "1", "home", "Shirt v2"}))
	rows, err := wb.GetAllRows(ctx)

	// then
	require.NoError(t, err)
	assert.Empty(t, empty)
	require.Len(t, rows, 3)
	assert.Equal(t, model.SheetHeaders, rows[0])
	assert.Equal(t, []string{"1", "1", "home", "Shirt v2"}, rows[1])
	assert.Equal(t, []string{"2", "2", "home", "Pants"}, rows[2])
}

func TestExportWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	products := []*model.Product{{ID: "1", Section: "home", Order: 1, Title: "Shirt", Status: model.StatusStock, Images: []string{"a.jpg", "b.jpg"}}}

	require.NoError(t, sheets.ExportWorkbook(path, products))

	wb, err := sheets.NewWorkbook(path, "")
	require.NoError(t, err)
	rows, err := wb.GetAllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.SheetHeaders, rows[0])
	require.GreaterOrEqual(t, len(rows[1]), 9)
	assert.Equal(t, []string{"1", "1", "home", "Shirt", "", "", "", "stock", "a.jpg|b.jpg"}, rows[1][:9])
}
