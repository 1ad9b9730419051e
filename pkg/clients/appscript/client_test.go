package appscript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imscloud/ims/internal/config"
)

func TestFetchDecodesRows(t *testing.T) {
	var gotAction, gotStamp string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		gotStamp = r.URL.Query().Get("_")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"item":"Chair","qty":4},{"item":"Desk","qty":"2"}]`))
	}))
	defer srv.Close()

	client := NewClient(config.AppsScriptConfig{URL: srv.URL, Timeout: time.Second})
	client.now = func() time.Time { return time.UnixMilli(1700000000000) }

	rows, err := client.Fetch(context.Background(), "getInventory")
	require.NoError(t, err)
	require.Equal(t, "getInventory", gotAction)
	require.Equal(t, "1700000000000", gotStamp)
	require.Len(t, rows, 2)
	require.Equal(t, "Chair", rows[0]["item"])
	require.Equal(t, 4.0, rows[0]["qty"])
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(config.AppsScriptConfig{URL: srv.URL}).Fetch(context.Background(), "getSales")
	require.ErrorContains(t, err, "unexpected status 500")
}

func TestFetchRejectsInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>login required</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(config.AppsScriptConfig{URL: srv.URL}).Fetch(context.Background(), "getExpenses")
	require.ErrorContains(t, err, "decode response")
}

func TestFetchEmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	rows, err := NewClient(config.AppsScriptConfig{URL: srv.URL}).Fetch(context.Background(), "getSales")
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}
