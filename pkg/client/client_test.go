package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestCalculate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/plazos", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CalculateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sancion_iva", req.DocumentType)

		json.NewEncoder(w).Encode(CalculateResult{
			DocumentType: "sancion_iva",
			Deadlines: []Deadline{
				{Name: "recurso_reposicion", Due: "2025-03-31", Severity: "bajo"},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	res, err := c.Calculate(context.Background(), &CalculateRequest{
		DocumentType:     "sancion_iva",
		NotificationDate: "10/03/2025",
	})
	require.NoError(t, err)
	require.Len(t, res.Deadlines, 1)
	assert.Equal(t, "2025-03-31", res.Deadlines[0].Due)
}

func TestCalculate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "PLZ_002",
			"message": "unparseable notification date",
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Calculate(context.Background(), &CalculateRequest{DocumentType: "x", NotificationDate: "y"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "PLZ_002", apiErr.Code)
	assert.True(t, apiErr.IsBadRequest())
	assert.False(t, apiErr.IsServerError())
}

func TestDo_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(HolidaysResult{Year: 2025, Holidays: []string{"2025-01-01"}})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(2))
	require.NoError(t, err)

	res, err := c.Holidays(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, res.Year)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"code": "COMMON_002", "message": "bad request"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(3))
	require.NoError(t, err)

	_, err = c.Holidays(context.Background(), 2025)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExportICal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/plazos/ical", r.URL.Path)
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	data, err := c.ExportICal(context.Background(), &CalculateRequest{
		DocumentType:     "acta_inspeccion",
		NotificationDate: "01/08/2025",
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")
}

func TestProcedures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/procedimientos", r.URL.Path)
		json.NewEncoder(w).Encode(map[string][]string{
			"procedures": {"sancion_iva", "requerimiento_generico"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	types, err := c.Procedures(context.Background())
	require.NoError(t, err)
	assert.Contains(t, types, "sancion_iva")
}

func TestDecodeAPIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not here"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Procedures(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP_404", apiErr.Code)
	assert.True(t, apiErr.IsNotFound())
}
