package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyops/ledgersync/pkg/errors"
	"github.com/tallyops/ledgersync/pkg/ledger"
)

func newTestService(t *testing.T, url string) *Service {
	t.Helper()
	svc, err := New(context.Background(), &http.Client{}, WithEndpoint(url))
	require.NoError(t, err)
	return svc
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func apiError(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": status, "status": status},
	})
}

func TestValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v4/spreadsheets/main-id/values/'All_accounts'", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"range":          "'All_accounts'!A1:E3",
			"majorDimension": "ROWS",
			"values": [][]any{
				{"Name", "Address", "City", "State", "Account"},
				{"Acme", "1 Main St", "Omaha", "NE", "ACC1"},
				{"Binders", "9 Oak Ave"},
			},
		})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	grid, err := svc.Values(context.Background(), "main", "main-id", "All_accounts")
	require.NoError(t, err)

	// Trailing blanks the service trimmed come back as padding.
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"Acme", "1 Main St", "Omaha", "NE", "ACC1"}, grid[1])
	assert.Equal(t, []string{"Binders", "9 Oak Ave", "", "", ""}, grid[2])
}

func TestValuesNumericCells(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"values": [][]any{{"Tier", 400, 5000000, 0.75}},
		})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	grid, err := svc.Values(context.Background(), "main", "main-id", "All_accounts")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tier", "400", "5000000", "0.75"}, grid[0])
}

func TestValuesReadError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		sentinel error
	}{
		{"permission denied", http.StatusForbidden, errors.ErrPermissionDenied},
		{"not found", http.StatusNotFound, errors.ErrDocumentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				apiError(w, tt.code, tt.name)
			}))
			defer server.Close()

			svc := newTestService(t, server.URL)
			_, err := svc.Values(context.Background(), "upload", "up-id", "Sheet1")
			require.Error(t, err)

			var rerr *errors.ReadError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, "upload", rerr.Doc)
			assert.Equal(t, tt.code, rerr.StatusCode)
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestDocumentAndFirstWorksheet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v4/spreadsheets/up-id", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"properties": map[string]any{"title": "Accounts upload 2026-08"},
			"sheets": []any{
				map[string]any{"properties": map[string]any{"title": "Export"}},
				map[string]any{"properties": map[string]any{"title": "Notes"}},
			},
		})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	info, err := svc.Document(context.Background(), "upload", "up-id")
	require.NoError(t, err)
	assert.Equal(t, "Accounts upload 2026-08", info.Title)
	assert.Equal(t, []string{"Export", "Notes"}, info.Worksheets)

	first, err := svc.FirstWorksheet(context.Background(), "upload", "up-id")
	require.NoError(t, err)
	assert.Equal(t, "Export", first)
}

func TestFirstWorksheetEmptyDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"properties": map[string]any{"title": "Empty"},
		})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	_, err := svc.FirstWorksheet(context.Background(), "upload", "up-id")
	require.Error(t, err)

	var rerr *errors.ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, err.Error(), "no worksheets")
}

func TestRowCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"values": [][]any{{"h"}, {"r1"}, {"r2"}, {"r3"}},
		})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	n, err := svc.RowCount(context.Background(), "main", "main-id", "All_accounts")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestOverwrite(t *testing.T) {
	var got struct {
		Values [][]any `json:"values"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v4/spreadsheets/main-id/values/'All_accounts'!A1", r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, map[string]any{"updatedCells": 4})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	err := svc.Overwrite(context.Background(), "main-id", "All_accounts", [][]string{
		{"Name", "Account"},
		{"Acme", "ACC1"},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Name", "Account"}, {"Acme", "ACC1"}}, got.Values)
}

func TestAppend(t *testing.T) {
	var got struct {
		Values [][]any `json:"values"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v4/spreadsheets/main-id/values/'All_accounts':append", r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, map[string]any{})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	err := svc.Append(context.Background(), "main-id", "All_accounts", [][]any{
		{"a", "b", "c", "d", "ACC9", "e", "f", 400},
	})
	require.NoError(t, err)

	// The tier arrives as a JSON number, not quoted text.
	require.Len(t, got.Values, 1)
	assert.Equal(t, []any{"a", "b", "c", "d", "ACC9", "e", "f", float64(400)}, got.Values[0])
}

func TestClear(t *testing.T) {
	var got struct {
		Ranges []string `json:"ranges"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v4/spreadsheets/main-id/values:batchClear", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, map[string]any{})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	layout := ledger.DefaultLayout()
	err := svc.Clear(context.Background(), "main-id", "All_accounts", layout.ClearRange(57))
	require.NoError(t, err)
	assert.Equal(t, []string{"'All_accounts'!L2:L57"}, got.Ranges)
}

func TestWriteFormula(t *testing.T) {
	var got struct {
		Values [][]any `json:"values"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v4/spreadsheets/main-id/values/'All_accounts'!L2", r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, map[string]any{})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	layout := ledger.DefaultLayout()
	err := svc.WriteFormula(context.Background(), "main-id", "All_accounts", layout.FormulaCell(), layout.RateFormula)
	require.NoError(t, err)

	require.Len(t, got.Values, 1)
	require.Len(t, got.Values[0], 1)
	assert.Equal(t,
		`=ARRAYFORMULA(if(A2:A="","",xlookup(XLOOKUP(B2:B,'DTR Details'!L13:L68,'DTR Details'!M13:M68),'DTR Details'!L5:L9,'DTR Details'!M5:M9)))`,
		got.Values[0][0])
}

func TestWriteErrorCarriesOpAndStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, http.StatusForbidden, "PERMISSION_DENIED")
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	err := svc.Append(context.Background(), "main-id", "All_accounts", [][]any{{"x"}})
	require.Error(t, err)

	var werr *errors.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "append", werr.Op)
	assert.Equal(t, http.StatusForbidden, werr.StatusCode)
	assert.True(t, errors.IsPermissionDenied(err))
}

func TestDelete(t *testing.T) {
	t.Run("deletes the file", func(t *testing.T) {
		var gotPath, gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("supportsAllDrives")
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		svc := newTestService(t, server.URL)
		require.NoError(t, svc.Delete(context.Background(), "upload", "up-id"))
		assert.Equal(t, "/drive/v3/files/up-id", gotPath)
		assert.Equal(t, "true", gotQuery)
	})

	t.Run("failure becomes a cleanup error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiError(w, http.StatusNotFound, "NOT_FOUND")
		}))
		defer server.Close()

		svc := newTestService(t, server.URL)
		err := svc.Delete(context.Background(), "upload", "up-id")
		require.Error(t, err)

		var cerr *errors.CleanupError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "upload", cerr.Doc)
	})
}
