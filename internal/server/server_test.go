package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoicemaker/internal/clock"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/draft"
	"github.com/smallbiznis/invoicemaker/internal/draft/storage"
	"github.com/smallbiznis/invoicemaker/internal/editor"
	"github.com/smallbiznis/invoicemaker/internal/export"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/smallbiznis/invoicemaker/internal/invoice/render"
	"github.com/smallbiznis/invoicemaker/internal/locale"
	"github.com/smallbiznis/invoicemaker/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var serverNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

type counterIDs struct{ n int }

func (g *counterIDs) NewItemID() string {
	g.n++
	return fmt.Sprintf("item-t%d", g.n)
}

type generatorFunc func(ctx context.Context, job export.Job) ([]byte, error)

func (f generatorFunc) Generate(ctx context.Context, job export.Job) ([]byte, error) {
	return f(ctx, job)
}

type testEnv struct {
	server  *Server
	editor  *editor.Controller
	exports *export.Service
	genErr  error
}

func newTestEnv(t *testing.T, start bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{}
	clk := clock.NewFakeClock(serverNow)
	cfg := config.DefaultExportConfig()
	cfg.SettleDelay = 0
	settings := config.NewStaticExportConfigHolder(cfg)

	env.exports = export.NewService(export.Options{
		Clock:    clk,
		Settings: settings,
		Generators: map[string]export.Generator{
			config.GeneratorNative: generatorFunc(func(context.Context, export.Job) ([]byte, error) {
				if env.genErr != nil {
					return nil, env.genErr
				}
				return []byte("%PDF-test"), nil
			}),
		},
		NewJobID: func() string { return "job-1" },
	})

	store := draft.NewStore[domain.InvoiceData](storage.NewMemory(), "test-draft", zap.NewNop(), nil)
	env.editor = editor.NewController(editor.Options{
		Store:    store,
		Locale:   locale.Default,
		Clock:    clk,
		IDs:      &counterIDs{},
		Exporter: env.exports,
		Settings: settings,
	})
	if start {
		require.NoError(t, env.editor.Start(context.Background()))
	}

	env.server = NewServer(ServerParams{
		Gin:      NewEngine(observability.Config{Environment: "test"}, nil),
		Editor:   env.editor,
		Exports:  env.exports,
		Renderer: render.NewRenderer(),
		Settings: settings,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.server.Engine().ServeHTTP(rec, req)
	return rec
}

type snapshotResponse struct {
	Data  editor.Snapshot     `json:"data"`
	Item  *domain.InvoiceItem `json:"item"`
	Reset *bool               `json:"reset"`
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) snapshotResponse {
	t.Helper()
	var out snapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out.Error
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestGetInvoice(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeSnapshot(t, rec).Data
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Saved)
	assert.Equal(t, "USD", snap.Invoice.Currency)
	assert.Equal(t, "2024-01-15", snap.Invoice.Date)
	require.Len(t, snap.Invoice.Items, 1)
	assert.Equal(t, domain.Totals{}, snap.Totals)
}

func TestUpdateInvoiceField(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodPatch, "/api/invoice", gin.H{"field": "toName", "value": "Globex"})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec).Data
	assert.Equal(t, "Globex", snap.Invoice.ToName)
	assert.True(t, snap.Saved)

	rec = env.do(t, http.MethodPatch, "/api/invoice", gin.H{"field": "discount", "value": 150})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100.0, decodeSnapshot(t, rec).Data.Invoice.Discount)

	rec = env.do(t, http.MethodPatch, "/api/invoice", gin.H{"field": "currency", "value": "XYZ"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, ValidationError{Field: "currency", Code: "unsupported_currency", Message: "invalid value"}, payload.Errors[0])

	rec = env.do(t, http.MethodPatch, "/api/invoice", gin.H{"value": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Errors[0].Code)

	rec = env.do(t, http.MethodPatch, "/api/invoice", gin.H{"field": "items", "value": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_field", decodeError(t, rec).Errors[0].Code)

	assert.Equal(t, "Globex", env.editor.Current().Invoice.ToName)
}

func TestItemLifecycle(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodPost, "/api/invoice/items", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decodeSnapshot(t, rec)
	require.NotNil(t, added.Item)
	assert.Equal(t, domain.InvoiceItem{ID: "item-t1", Quantity: 1}, *added.Item)
	assert.Len(t, added.Data.Invoice.Items, 2)

	rec = env.do(t, http.MethodPatch, "/api/invoice/items/item-t1", gin.H{"description": "Design", "quantity": 2, "rate": 50})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec).Data
	assert.Equal(t, 100.0, snap.Totals.Total)

	rec = env.do(t, http.MethodPatch, "/api/invoice/items/item-t1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	before := env.editor.Current().Invoice
	rec = env.do(t, http.MethodPatch, "/api/invoice/items/missing", gin.H{"rate": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/invoice/items/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before, env.editor.Current().Invoice)

	rec = env.do(t, http.MethodPut, "/api/invoice/items/order", gin.H{"ids": []string{"item-t1", domain.DefaultItemID}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"item-t1", domain.DefaultItemID}, decodeSnapshot(t, rec).Data.Invoice.ItemIDs())

	rec = env.do(t, http.MethodPut, "/api/invoice/items/order", gin.H{"ids": []string{"item-t1", "item-t1"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_reorder", decodeError(t, rec).Errors[0].Code)

	rec = env.do(t, http.MethodDelete, "/api/invoice/items/item-t1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{domain.DefaultItemID}, decodeSnapshot(t, rec).Data.Invoice.ItemIDs())
}

func TestUpdateItemCoercesNumbers(t *testing.T) {
	env := newTestEnv(t, true)
	path := "/api/invoice/items/" + domain.DefaultItemID

	rec := env.do(t, http.MethodPatch, path, gin.H{"quantity": "3", "rate": "12.5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := decodeSnapshot(t, rec).Data.Invoice.Items[0]
	assert.Equal(t, 3.0, item.Quantity)
	assert.Equal(t, 12.5, item.Rate)

	cases := []struct {
		name string
		body gin.H
	}{
		{"text quantity", gin.H{"quantity": "abc"}},
		{"empty quantity", gin.H{"quantity": ""}},
		{"negative quantity", gin.H{"quantity": -3}},
		{"null quantity", gin.H{"quantity": nil}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPatch, path, tc.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			item := decodeSnapshot(t, rec).Data.Invoice.Items[0]
			assert.Equal(t, 0.0, item.Quantity)
			assert.Equal(t, 12.5, item.Rate)
		})
	}

	rec = env.do(t, http.MethodPatch, path, gin.H{"rate": true, "description": "Audit"})
	require.Equal(t, http.StatusOK, rec.Code)
	item = decodeSnapshot(t, rec).Data.Invoice.Items[0]
	assert.Equal(t, 0.0, item.Rate)
	assert.Equal(t, "Audit", item.Description)
}

func TestValidateInvoice(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/invoice/validate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"data":{"valid":true}}`, rec.Body.String())

	rec = env.do(t, http.MethodPatch, "/api/invoice", gin.H{"field": "fromEmail", "value": "nope"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decodeSnapshot(t, rec).Data
	assert.False(t, snap.Valid)
	assert.Equal(t, []domain.FieldError{{Field: "fromEmail", Tag: "email"}}, snap.Issues)

	rec = env.do(t, http.MethodGet, "/api/invoice/validate", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	out := decodeError(t, rec)
	assert.Equal(t, "validation_error", out.Type)
	assert.Equal(t, []ValidationError{{Field: "fromEmail", Code: "email", Message: "invalid value"}}, out.Errors)
}

func TestResetInvoice(t *testing.T) {
	env := newTestEnv(t, true)
	_, err := env.editor.UpdateField(context.Background(), domain.FieldNotes, "keep me")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/invoice/reset", gin.H{"confirm": false})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeSnapshot(t, rec)
	require.NotNil(t, out.Reset)
	assert.False(t, *out.Reset)
	assert.Equal(t, "keep me", out.Data.Invoice.Notes)

	rec = env.do(t, http.MethodPost, "/api/invoice/reset", gin.H{"confirm": true})
	require.Equal(t, http.StatusOK, rec.Code)
	out = decodeSnapshot(t, rec)
	assert.True(t, *out.Reset)
	assert.Equal(t, domain.DefaultInvoice(serverNow), out.Data.Invoice)
}

func TestPreviewInvoice(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/invoice/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), render.PlaceholderNumber)
	assert.Contains(t, rec.Body.String(), "Generated with invoicemaker")
}

func TestExportInvoice(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodPost, "/api/invoice/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypePDF, rec.Header().Get("Content-Type"))
	assert.Equal(t, "job-1", rec.Header().Get(HeaderExportJobID))
	assert.Equal(t, "%PDF-test", rec.Body.String())

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "Invoice-001-2024-01-15.pdf", params["filename"])
}

func TestExportFailureNotice(t *testing.T) {
	env := newTestEnv(t, true)
	env.genErr = errors.New("renderer crashed")

	rec := env.do(t, http.MethodPost, "/api/invoice/export", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "export_failed", payload.Type)
	assert.Equal(t, export.FailureMessage, payload.Message)

	var status struct {
		Data export.Status `json:"data"`
	}
	rec = env.do(t, http.MethodGet, "/api/export/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Data.InProgress)
	require.NotNil(t, status.Data.Notice)
	assert.Equal(t, "job-1", status.Data.Notice.JobID)

	rec = env.do(t, http.MethodDelete, "/api/export/notice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, env.exports.Status().Notice)
}

func TestLocaleAndCatalog(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/locale", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var loc struct {
		Data locale.Locale `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loc))
	assert.Equal(t, locale.Default, loc.Data)

	rec = env.do(t, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog struct {
		Data struct {
			Currencies []domain.Currency      `json:"currencies"`
			Languages  []domain.Language      `json:"languages"`
			TaxTypes   []domain.TaxTypeOption `json:"taxTypes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Equal(t, domain.Currencies, catalog.Data.Currencies)
	assert.Equal(t, domain.Languages, catalog.Data.Languages)
	assert.Equal(t, domain.TaxTypes, catalog.Data.TaxTypes)
}

func TestEditsBeforeStartAreUnavailable(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPatch, "/api/invoice", gin.H{"field": "notes", "value": "x"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "service_unavailable", decodeError(t, rec).Type)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Type)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{export.ErrExportInProgress, http.StatusConflict, "conflict"},
		{fmt.Errorf("%w: boom", export.ErrExportFailed), http.StatusInternalServerError, "export_failed"},
		{domain.ErrItemNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: x", domain.ErrInvalidReorder), http.StatusBadRequest, "validation_error"},
		{&domain.ValidationError{Fields: []domain.FieldError{{Field: "fromEmail", Tag: "email"}}}, http.StatusBadRequest, "validation_error"},
		{editor.ErrNotReady, http.StatusServiceUnavailable, "service_unavailable"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, payload := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.kind, payload.Type, tc.err.Error())
	}
	assert.Equal(t, "conflict", classifyErrorForLog(export.ErrExportInProgress))
}
