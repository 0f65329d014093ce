// Package rewards talks to the point-system endpoints of the rewards API:
// claim-list lookup, claim submission and the dashboard ping.
package rewards

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/pointclaim/internal/api"
	"github.com/ppiankov/pointclaim/internal/model"
)

// Doer is the transport the rewards service needs
type Doer interface {
	Get(ctx context.Context, req api.Request) (*api.Response, error)
	Post(ctx context.Context, req api.Request) (*api.Response, error)
}

// Service performs per-account calls against the rewards API
type Service struct {
	client     Doer
	endpoints  model.RewardsConfig
	appVersion string
	log        logrus.FieldLogger
}

// NewService creates a rewards service
func NewService(client Doer, endpoints model.RewardsConfig, identity model.IdentityConfig, log logrus.FieldLogger) *Service {
	return &Service{
		client:     client,
		endpoints:  endpoints,
		appVersion: identity.AppVersion,
		log:        log,
	}
}

// accountQuery is the msisdn/userid/v query shared by every endpoint
func (s *Service) accountQuery(acct model.Account) map[string]string {
	return map[string]string{
		"msisdn": acct.MSISDN(),
		"userid": acct.UserID,
		"v":      s.appVersion,
	}
}
