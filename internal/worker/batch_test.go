package worker

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/pointclaim/internal/model"
)

type accountResult struct {
	phone string
	err   error
}

func (r *accountResult) GetError() error {
	return r.err
}

func testAccounts(n int) []model.Account {
	accounts := make([]model.Account, n)
	for i := range accounts {
		accounts[i] = model.Account{
			Phone:  "%2B95900000" + string(rune('0'+i)),
			Access: "token",
			UserID: "1",
		}
	}
	return accounts
}

func TestBatchProcessor_ProcessAccounts(t *testing.T) {
	processor := NewBatchProcessor(0)

	var calls int32
	results := processor.ProcessAccounts(context.Background(), testAccounts(5), func(ctx context.Context, acct model.Account) Result {
		atomic.AddInt32(&calls, 1)
		time.Sleep(5 * time.Millisecond)
		return &accountResult{phone: acct.Phone}
	})

	if len(results) != 5 {
		t.Errorf("expected 5 results, got %d", len(results))
	}
	if atomic.LoadInt32(&calls) != 5 {
		t.Errorf("expected 5 calls, got %d", calls)
	}

	seen := make(map[string]bool)
	for _, res := range results {
		seen[res.(*accountResult).phone] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 distinct accounts, got %d", len(seen))
	}
}

func TestBatchProcessor_FailuresDoNotStopBatch(t *testing.T) {
	processor := NewBatchProcessor(2)

	accounts := testAccounts(6)
	results := processor.ProcessAccounts(context.Background(), accounts, func(ctx context.Context, acct model.Account) Result {
		if acct.Phone == accounts[0].Phone {
			return &accountResult{phone: acct.Phone, err: errors.New("boom")}
		}
		return &accountResult{phone: acct.Phone}
	})

	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}

	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
}

func TestBatchProcessor_ProcessAccounts_Empty(t *testing.T) {
	processor := NewBatchProcessor(2)

	results := processor.ProcessAccounts(context.Background(), nil, func(ctx context.Context, acct model.Account) Result {
		t.Error("fn should not be called for an empty batch")
		return &accountResult{}
	})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadDBIDsFromFile(t *testing.T) {
	content := `1
# comment
2

3
2`

	tmpfile, err := os.CreateTemp("", "dbids")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	ids, err := ReadDBIDsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadDBIDsFromFile failed: %v", err)
	}

	expected := []string{"1", "2", "3"}
	if len(ids) != len(expected) {
		t.Fatalf("expected %d ids, got %d", len(expected), len(ids))
	}

	for i, id := range ids {
		if id != expected[i] {
			t.Errorf("expected id %s at index %d, got %s", expected[i], i, id)
		}
	}
}

func TestReadDBIDsFromFile_NonExistent(t *testing.T) {
	_, err := ReadDBIDsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
