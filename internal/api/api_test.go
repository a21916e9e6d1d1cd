package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsalud/registro-clinico/internal/domain/classification"
	"github.com/clinsalud/registro-clinico/internal/domain/export"
	"github.com/clinsalud/registro-clinico/internal/domain/record"
	"github.com/clinsalud/registro-clinico/internal/domain/report"
	"github.com/clinsalud/registro-clinico/internal/domain/roster"
	"github.com/clinsalud/registro-clinico/pkg/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *roster.Service) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rosterSvc, err := roster.NewService(logger)
	require.NoError(t, err)
	t.Cleanup(func() { rosterSvc.Close() })

	classifier := classification.New(classification.DefaultRuleSet())
	engine := record.NewEngine(classifier, rosterSvc)
	sheet := record.NewSheet(engine, record.DefaultRows)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	router := NewRouter(Handlers{
		Sheet:  NewSheetHandler(sheet, logger),
		Roster: NewRosterHandler(rosterSvc, logger),
		Report: NewReportHandler(report.NewAggregator(logger), sheet, logger),
		Export: NewExportHandler(export.NewService(store, logger), sheet, logger),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, rosterSvc
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func uploadRoster(t *testing.T, baseURL, csv string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "padron.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/roster/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestSheet_ListRows(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/sheet/rows/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, record.DefaultRows, body["size"])
}

func TestSheet_CommitCell(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("diagnosis commit classifies the row", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPut,
			srv.URL+"/api/v1/sheet/rows/0/cells/diagnosis",
			map[string]string{"value": "Diabetes tipo 2"},
		)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Diabetes tipo 2", body["diagnosis"])
		assert.Equal(t, "diabetes", body["category"])
		assert.Equal(t, "#9370DB", body["color"])
	})

	t.Run("weight and height commits derive bmi", func(t *testing.T) {
		_, _ = doJSON(t, http.MethodPut,
			srv.URL+"/api/v1/sheet/rows/1/cells/weight_kg",
			map[string]string{"value": "70"},
		)
		resp, body := doJSON(t, http.MethodPut,
			srv.URL+"/api/v1/sheet/rows/1/cells/height_m",
			map[string]string{"value": "1.75"},
		)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "22.86", body["bmi"])
	})

	t.Run("derived field rejected", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPut,
			srv.URL+"/api/v1/sheet/rows/0/cells/bmi",
			map[string]string{"value": "30"},
		)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("out of range position", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPut,
			srv.URL+"/api/v1/sheet/rows/99/cells/name",
			map[string]string{"value": "x"},
		)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSheet_Clear(t *testing.T) {
	srv, _ := newTestServer(t)

	_, _ = doJSON(t, http.MethodPut,
		srv.URL+"/api/v1/sheet/rows/0/cells/identifier",
		map[string]string{"value": "123"},
	)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sheet/rows/clear", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["cleared"])

	_, committed := doJSON(t, http.MethodGet, srv.URL+"/api/v1/sheet/rows/committed", nil)
	assert.EqualValues(t, 0, committed["count"])
}

func TestRoster_UploadLookupSearch(t *testing.T) {
	srv, _ := newTestServer(t)

	uploadRoster(t, srv.URL, "dni,nombre,beneficio\n12345678,Maria Lopez,PAMI\n87654321,Juan Perez,IOMA\n")

	t.Run("lookup hit", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/roster/lookup/12345678", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["found"])
		assert.Equal(t, "Maria Lopez", body["name"])
		assert.Equal(t, "PAMI", body["benefit"])
	})

	t.Run("lookup miss carries suggestions", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/roster/lookup/1234567", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["found"])
		suggestions, ok := body["suggestions"].([]any)
		require.True(t, ok)
		assert.Contains(t, suggestions, "12345678")
	})

	t.Run("name search", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/roster/search?q=maria", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("search requires query", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/roster/search", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("identifier commit autofills from roster", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPut,
			srv.URL+"/api/v1/sheet/rows/0/cells/identifier",
			map[string]string{"value": "87654321"},
		)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Juan Perez", body["name"])
		assert.Equal(t, "IOMA", body["benefit"])
	})
}

func TestReport_Quarterly(t *testing.T) {
	srv, _ := newTestServer(t)

	commits := []struct {
		pos   int
		field string
		value string
	}{
		{0, "identifier", "111"},
		{0, "attention_date", "2024-01-15"},
		{1, "identifier", "111"},
		{1, "attention_date", "15/02/2024"},
		{2, "identifier", "222"},
		{2, "attention_date", "not-a-date"},
	}
	for _, c := range commits {
		resp, _ := doJSON(t, http.MethodPut,
			fmt.Sprintf("%s/api/v1/sheet/rows/%d/cells/%s", srv.URL, c.pos, c.field),
			map[string]string{"value": c.value},
		)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/reports/quarterly", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 3, body["total_rows"])
	assert.EqualValues(t, 1, body["skipped_rows"])

	lines, ok := body["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, "111", line["identifier"])
	assert.EqualValues(t, 1, line["quarter"])
	assert.EqualValues(t, 2, line["count"])
}

func TestExport_CreateListDownload(t *testing.T) {
	srv, _ := newTestServer(t)

	_, _ = doJSON(t, http.MethodPut,
		srv.URL+"/api/v1/sheet/rows/0/cells/identifier",
		map[string]string{"value": "111"},
	)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/v1/exports/",
		map[string]string{"format": "csv"},
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	fileID, ok := created["id"].(string)
	require.True(t, ok)

	t.Run("list", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/exports/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, body["total"])
	})

	t.Run("download", func(t *testing.T) {
		dl, err := http.Get(srv.URL + "/api/v1/exports/" + fileID)
		require.NoError(t, err)
		defer dl.Body.Close()

		require.Equal(t, http.StatusOK, dl.StatusCode)
		assert.Equal(t, "text/csv", dl.Header.Get("Content-Type"))
		data, err := io.ReadAll(dl.Body)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "dni,"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/exports/",
			map[string]string{"format": "pdf"},
		)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown file", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet,
			srv.URL+"/api/v1/exports/00000000-0000-0000-0000-000000000000", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	categories, ok := body["categories"].([]any)
	require.True(t, ok)
	assert.Len(t, categories, len(classification.Categories))
}
