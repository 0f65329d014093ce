// Package source retrieves account records from the xalyon data service.
package source

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/ppiankov/pointclaim/internal/api"
	"github.com/ppiankov/pointclaim/internal/model"
	"github.com/ppiankov/pointclaim/internal/store"
)

// Getter is the transport call the fetcher needs
type Getter interface {
	Get(ctx context.Context, req api.Request) (*api.Response, error)
}

// Fetcher downloads one batch of account records per data source id
type Fetcher struct {
	client  Getter
	dataURL string
	backups *store.BackupStore
	log     logrus.FieldLogger
}

// NewFetcher creates a new fetcher
func NewFetcher(client Getter, cfg model.SourceConfig, backups *store.BackupStore, log logrus.FieldLogger) *Fetcher {
	return &Fetcher{
		client:  client,
		dataURL: cfg.DataURL,
		backups: backups,
		log:     log,
	}
}

// Fetch downloads the records for dbID and saves the raw body as a backup.
// Valid JSON that is not an array yields no accounts and no error; a body
// that is not JSON at all is a fetch failure.
func (f *Fetcher) Fetch(ctx context.Context, dbID string) ([]model.Account, error) {
	log := f.log.WithField("db_id", dbID)
	log.Info("fetching account data")

	resp, err := f.client.Get(ctx, api.Request{
		URL:   f.dataURL,
		Query: map[string]string{"r": dbID},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch db %s: %w", dbID, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch db %s: unexpected status %d", dbID, resp.StatusCode)
	}

	path, err := f.backups.Save(dbID, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch db %s: %w", dbID, err)
	}
	log.WithField("path", path).Info("account data saved")

	return ParseAccounts(resp.Body), nil
}

// ParseAccounts maps a JSON array of {phone, access, userid} objects to
// accounts. Missing fields become empty strings; numeric ids keep their
// literal form.
func ParseAccounts(body []byte) []model.Account {
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil
	}

	items := parsed.Array()
	accounts := make([]model.Account, 0, len(items))
	for _, item := range items {
		accounts = append(accounts, model.Account{
			Phone:  item.Get("phone").String(),
			Access: item.Get("access").String(),
			UserID: item.Get("userid").String(),
		})
	}

	return accounts
}
