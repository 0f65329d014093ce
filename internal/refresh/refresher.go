// Package refresh re-syncs phone-number records on the xalyon service.
package refresh

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/pointclaim/internal/api"
	"github.com/ppiankov/pointclaim/internal/model"
)

const progressMessage = "Processing phone numbers"

// Getter is the transport call the refresher needs
type Getter interface {
	Get(ctx context.Context, req api.Request) (*api.Response, error)
}

// Refresher fetches the phone list and pings the refresh endpoint per number
type Refresher struct {
	client      Getter
	phonesURL   string
	refreshURL  string
	workers     int
	progressOut io.Writer // nil disables the progress bar
	log         logrus.FieldLogger
}

// NewRefresher creates a refresher. progressOut receives the progress bar
// when cfg.Progress is set.
func NewRefresher(client Getter, cfg model.RefreshConfig, progressOut io.Writer, log logrus.FieldLogger) *Refresher {
	r := &Refresher{
		client:     client,
		phonesURL:  cfg.PhonesURL,
		refreshURL: cfg.RefreshURL,
		workers:    cfg.Workers,
		log:        log,
	}
	if cfg.Progress {
		r.progressOut = progressOut
	}
	return r
}

// Run refreshes every phone number returned by the phone list endpoint.
// If the list cannot be fetched or is not a JSON array nothing is refreshed.
func (r *Refresher) Run(ctx context.Context) *model.RefreshReport {
	report := &model.RefreshReport{}

	resp, err := r.client.Get(ctx, api.Request{URL: r.phonesURL, Anonymous: true})
	if err != nil {
		r.log.WithError(err).Warn("failed to fetch phone numbers")
		report.FetchFailed = true
		return report
	}
	if !resp.OK() {
		r.log.WithField("status", resp.StatusCode).Warn("failed to fetch phone numbers")
		report.FetchFailed = true
		return report
	}

	parsed := gjson.ParseBytes(resp.Body)
	if !parsed.IsArray() {
		r.log.Warn("response is not a list of phone numbers")
		report.NotList = true
		return report
	}

	phones := parsed.Array()
	report.Total = len(phones)
	if report.Total == 0 {
		return report
	}

	var progress tracker = noopTracker{}
	if r.progressOut != nil {
		progress = newBarTracker(r.progressOut, progressMessage, report.Total)
	}

	var refreshed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}

	for _, phone := range phones {
		phone := phone.String()
		g.Go(func() error {
			defer progress.Increment()
			if r.refreshOne(gctx, phone) {
				refreshed.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()
	progress.Done()

	report.Refreshed = int(refreshed.Load())
	report.Failed = int(failed.Load())
	return report
}

// refreshOne pings the refresh endpoint for a single number. The number is
// appended to the URL as-is.
func (r *Refresher) refreshOne(ctx context.Context, phone string) bool {
	log := r.log.WithField("phone", phone)

	resp, err := r.client.Get(ctx, api.Request{
		URL:       r.refreshURL + "?phone=" + phone,
		Anonymous: true,
	})
	if err != nil {
		log.WithError(err).Warn("failed to refresh phone number")
		return false
	}
	if !resp.OK() {
		log.WithField("status", resp.StatusCode).Warn("failed to refresh phone number")
		return false
	}

	log.Info("refreshed phone number")
	return true
}
