package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowmarket/hunter/internal/resilience"
)

func TestSheetTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/spreadsheets/sheet-123", r.URL.Path)
		assert.Equal(t, "sheets.properties.title", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"sheets":[{"properties":{"title":"Hoja 1"}},{"properties":{"title":"Bogotá"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("sheet-123", WithBaseURL(srv.URL))
	titles, err := c.SheetTitles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hoja 1", "Bogotá"}, titles)
}

func TestAddSheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/spreadsheets/sheet-123:batchUpdate", r.URL.Path)

		var body struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Requests, 1)
		assert.Equal(t, "Bogotá", body.Requests[0].AddSheet.Properties.Title)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("sheet-123", WithBaseURL(srv.URL))
	require.NoError(t, c.AddSheet(context.Background(), "Bogotá"))
}

func TestGetValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/sheet-123/values/'Bogotá'!A2:L", r.URL.Path)
		assert.Equal(t, "ROWS", r.URL.Query().Get("majorDimension"))
		_, _ = w.Write([]byte(`{"range":"'Bogotá'!A2:L","values":[["a","b"],[],["c",4.5,true]]}`))
	}))
	defer srv.Close()

	c := NewClient("sheet-123", WithBaseURL(srv.URL))
	rows, err := c.GetValues(context.Background(), A1Range("Bogotá", 1, 2, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {}, {"c", "4.5", "true"}}, rows)
}

func TestGetValues_EmptyRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"range":"'Cali'!A1:L1"}`))
	}))
	defer srv.Close()

	c := NewClient("sheet-123", WithBaseURL(srv.URL))
	rows, err := c.GetValues(context.Background(), A1Range("Cali", 1, 1, 12, 1))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))

		var body valueRange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ROWS", body.MajorDimension)
		assert.Equal(t, "'Cali'!A1:B1", body.Range)
		assert.Equal(t, [][]any{{"timestamp", "country"}}, body.Values)
		_, _ = w.Write([]byte(`{"updatedRows":1}`))
	}))
	defer srv.Close()

	c := NewClient("sheet-123", WithBaseURL(srv.URL))
	err := c.UpdateValues(context.Background(), A1Range("Cali", 1, 1, 2, 1), [][]string{{"timestamp", "country"}})
	require.NoError(t, err)
}

func TestAppendValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/spreadsheets/sheet-123/values/'Cali'!A1:L:append", r.URL.Path)
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))

		var body valueRange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"updates":{"updatedRows":` + itoa(len(body.Values)) + `}}`))
	}))
	defer srv.Close()

	c := NewClient("sheet-123", WithBaseURL(srv.URL))
	n, err := c.AppendValues(context.Background(), "'Cali'!A1:L", [][]string{{"a"}, {"b"}, {"c"}})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAppendValues_SendsLiteralStrings(t *testing.T) {
	var got valueRange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"updates":{"updatedRows":1}}`))
	}))
	defer srv.Close()

	c := NewClient("sheet-123", WithBaseURL(srv.URL))
	_, err := c.AppendValues(context.Background(), "'Cali'!A1:L", [][]string{{"+57 300 1234567", "=HYPERLINK(\"x\")"}})
	require.NoError(t, err)

	require.Len(t, got.Values, 1)
	assert.Equal(t, []any{"+57 300 1234567", "=HYPERLINK(\"x\")"}, got.Values[0])
}

func TestClient_HTTPErrors(t *testing.T) {
	status := http.StatusForbidden
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"The caller does not have permission"}}`))
	}))
	defer srv.Close()

	c := NewClient("sheet-123", WithBaseURL(srv.URL))
	_, err := c.SheetTitles(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.False(t, resilience.IsTransient(err))

	status = http.StatusTooManyRequests
	_, err = c.AppendValues(context.Background(), "'Cali'!A1:L", [][]string{{"a"}})
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestNewServiceAccountHTTPClient_BadJSON(t *testing.T) {
	_, err := NewServiceAccountHTTPClient(context.Background(), []byte(`{"type":"nope"`), 0)
	assert.Error(t, err)
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
