package rewards

import (
	"context"

	"github.com/ppiankov/pointclaim/internal/api"
	"github.com/ppiankov/pointclaim/internal/model"
)

// PingDashboard opens the dashboard for an account the way the app does on
// launch. The response body is not used.
func (s *Service) PingDashboard(ctx context.Context, acct model.Account) *model.DashboardOutcome {
	log := s.log.WithField("phone", acct.Phone)
	outcome := &model.DashboardOutcome{Phone: acct.Phone}

	query := s.accountQuery(acct)
	query["isFirstTime"] = "1"
	query["isFirstInstall"] = "0"

	resp, err := s.client.Get(ctx, api.Request{
		URL:   s.endpoints.DashboardURL,
		Query: query,
		Token: acct.Access,
	})
	if err != nil {
		outcome.Err = err
		log.WithError(err).Warn("dashboard request failed")
		return outcome
	}

	outcome.StatusCode = resp.StatusCode
	outcome.OK = resp.OK()
	if outcome.OK {
		log.Info("dashboard ok")
	} else {
		log.WithField("status", resp.StatusCode).Info("dashboard failed")
	}

	return outcome
}
