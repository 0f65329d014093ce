package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/pointclaim/internal/model"
)

// AccountFunc performs one per-account operation
type AccountFunc func(ctx context.Context, acct model.Account) Result

// AccountJob runs an AccountFunc for a single account
type AccountJob struct {
	Account model.Account
	Run     AccountFunc
}

// Execute executes the account job
func (j *AccountJob) Execute(ctx context.Context) Result {
	return j.Run(ctx, j.Account)
}

// BatchProcessor fans an operation out over a batch of accounts
type BatchProcessor struct {
	concurrency int
}

// NewBatchProcessor creates a new batch processor. A concurrency of zero or
// less runs every account of a batch at once.
func NewBatchProcessor(concurrency int) *BatchProcessor {
	return &BatchProcessor{
		concurrency: concurrency,
	}
}

// ProcessAccounts runs fn once per account and waits for all of them.
// Unless ctx is cancelled, exactly len(accounts) results are returned, in
// completion order.
func (b *BatchProcessor) ProcessAccounts(ctx context.Context, accounts []model.Account, fn AccountFunc) []Result {
	if len(accounts) == 0 {
		return []Result{}
	}

	workers := b.concurrency
	if workers <= 0 || workers > len(accounts) {
		workers = len(accounts)
	}

	pool := NewPool(ctx, workers)
	pool.Start()

	for _, acct := range accounts {
		pool.Submit(&AccountJob{
			Account: acct,
			Run:     fn,
		})
	}

	return pool.Wait()
}

// ReadDBIDsFromFile reads data source ids from a file (one per line)
func ReadDBIDsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ids []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			ids = append(ids, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return ids, nil
}
