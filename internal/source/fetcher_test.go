package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ppiankov/pointclaim/internal/api"
	"github.com/ppiankov/pointclaim/internal/model"
	"github.com/ppiankov/pointclaim/internal/store"
)

func newFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, string) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := model.DefaultConfig()
	client, err := api.NewClient(cfg.HTTP, cfg.Identity, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	dir := t.TempDir()
	cfg.Source.DataURL = server.URL + "/v2/get/"
	logger, _ := test.NewNullLogger()

	return NewFetcher(client, cfg.Source, store.NewBackupStore(dir), logger), dir
}

func TestFetcher_Fetch_Success(t *testing.T) {
	fetcher, dir := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/get/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("r"); got != "2" {
			t.Errorf("expected r=2, got %q", got)
		}
		if r.Header.Get("Device-Name") == "" {
			t.Error("expected identity headers on data fetch")
		}
		_, _ = w.Write([]byte(`[{"phone":"%2B959111","access":"a1","userid":101},{"phone":"09222","access":"a2","userid":"202"}]`))
	})

	accounts, err := fetcher.Fetch(context.Background(), "2")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	want := []model.Account{
		{Phone: "%2B959111", Access: "a1", UserID: "101"},
		{Phone: "09222", Access: "a2", UserID: "202"},
	}
	if len(accounts) != len(want) {
		t.Fatalf("expected %d accounts, got %d", len(want), len(accounts))
	}
	for i := range want {
		if accounts[i] != want[i] {
			t.Errorf("account %d: got %+v, want %+v", i, accounts[i], want[i])
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "backup_2.json")); err != nil {
		t.Errorf("expected backup file: %v", err)
	}
}

func TestFetcher_Fetch_Non200(t *testing.T) {
	fetcher, dir := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if _, err := fetcher.Fetch(context.Background(), "1"); err == nil {
		t.Fatal("expected error for 403")
	}
	if _, err := os.Stat(filepath.Join(dir, "backup_1.json")); !os.IsNotExist(err) {
		t.Error("no backup should be written on failure")
	}
}

func TestFetcher_Fetch_EmptyArray(t *testing.T) {
	fetcher, _ := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	accounts, err := fetcher.Fetch(context.Background(), "4")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("expected no accounts, got %d", len(accounts))
	}
}

func TestParseAccounts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[{"phone":"1"},{"phone":"2"}]`, 2},
		{"object", `{"phone":"1"}`, 0},
		{"null", `null`, 0},
		{"empty", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(ParseAccounts([]byte(tt.body))); got != tt.want {
				t.Errorf("ParseAccounts(%q) returned %d accounts, want %d", tt.body, got, tt.want)
			}
		})
	}
}

func TestParseAccounts_MissingFields(t *testing.T) {
	accounts := ParseAccounts([]byte(`[{"phone":"%2B959000"}]`))
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Access != "" || accounts[0].UserID != "" {
		t.Errorf("expected empty access/userid, got %+v", accounts[0])
	}
}
