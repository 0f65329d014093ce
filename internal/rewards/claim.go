package rewards

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/ppiankov/pointclaim/internal/api"
	"github.com/ppiankov/pointclaim/internal/model"
)

// ResolveClaim looks up the first enabled claim for an account.
// Non-200 responses, transport errors and unparseable bodies resolve to
// LookupError; a list with no enabled entry resolves to LookupNone.
func (s *Service) ResolveClaim(ctx context.Context, acct model.Account) model.ClaimLookup {
	log := s.log.WithField("phone", acct.Phone)

	resp, err := s.client.Get(ctx, api.Request{
		URL:   s.endpoints.ClaimListURL,
		Query: s.accountQuery(acct),
		Token: acct.Access,
	})
	if err != nil {
		log.WithError(err).Warn("claim list request failed")
		return model.ClaimLookup{Status: model.LookupError}
	}
	if !resp.OK() {
		log.WithField("status", resp.StatusCode).Warn("failed to get claim list")
		return model.ClaimLookup{Status: model.LookupError}
	}

	return parseClaimList(resp.Body)
}

// parseClaimList picks the id of the first enabled entry of data.attribute.
// A missing data or attribute key means nothing to claim; a key of the wrong
// type, or an entry that is not an object, is a lookup error. An enabled
// entry without an id counts as nothing to claim.
func parseClaimList(body []byte) model.ClaimLookup {
	if !gjson.ValidBytes(body) {
		return model.ClaimLookup{Status: model.LookupError}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return model.ClaimLookup{Status: model.LookupError}
	}
	data := root.Get("data")
	if data.Exists() && !data.IsObject() {
		return model.ClaimLookup{Status: model.LookupError}
	}
	attrs := data.Get("attribute")
	if attrs.Exists() && !attrs.IsArray() {
		return model.ClaimLookup{Status: model.LookupError}
	}

	for _, attr := range attrs.Array() {
		if !attr.IsObject() {
			return model.ClaimLookup{Status: model.LookupError}
		}
		if !truthy(attr.Get("enable")) {
			continue
		}

		id := attr.Get("id")
		if !id.Exists() || id.Type == gjson.Null {
			return model.ClaimLookup{Status: model.LookupNone}
		}
		return model.ClaimLookup{Status: model.LookupAvailable, ID: id.String()}
	}

	return model.ClaimLookup{Status: model.LookupNone}
}

// truthy treats a JSON value as enabled unless it is missing, null, false,
// zero, an empty string, an empty array or an empty object. The string
// "false" is enabled.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		empty := true
		v.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	default:
		return false
	}
}

// ClaimPayloadID converts a claim id to the integer the claim endpoint
// expects. The id goes through a float parse and is truncated, matching how
// the mobile client serializes ids ("1024.0" becomes 1024). NaN, infinities
// and values outside the int64 range are rejected.
func ClaimPayloadID(claimID string) (int64, error) {
	f, err := strconv.ParseFloat(claimID, 64)
	if err != nil {
		return 0, fmt.Errorf("parse claim id %q: %w", claimID, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= maxClaimID || f < -maxClaimID {
		return 0, fmt.Errorf("claim id %q is not a representable integer", claimID)
	}
	return int64(f), nil
}

// maxClaimID is 2^63, the first float64 past the int64 range
const maxClaimID = 9223372036854775808.0

// SubmitClaim posts the claim for id. It reports success only for HTTP 200
// and returns the status code when the server answered.
func (s *Service) SubmitClaim(ctx context.Context, acct model.Account, claimID string) (bool, int) {
	log := s.log.WithField("phone", acct.Phone)

	id, err := ClaimPayloadID(claimID)
	if err != nil {
		log.WithError(err).Warn("invalid claim id")
		return false, 0
	}

	resp, err := s.client.Post(ctx, api.Request{
		URL:   s.endpoints.ClaimURL,
		Query: s.accountQuery(acct),
		Token: acct.Access,
		Body:  map[string]int64{"id": id},
	})
	if err != nil {
		log.WithError(err).Warn("claim request failed")
		return false, 0
	}

	if !resp.OK() {
		log.WithField("status", resp.StatusCode).Info("claim failed")
		return false, resp.StatusCode
	}

	log.WithField("claim_id", id).Info("claim succeeded")
	return true, resp.StatusCode
}

// Claim runs the whole claim flow for one account. It never fails: every
// problem is logged and reported as Claimed=false.
func (s *Service) Claim(ctx context.Context, acct model.Account) *model.ClaimOutcome {
	log := s.log.WithField("phone", acct.Phone)
	outcome := &model.ClaimOutcome{Phone: acct.Phone}

	outcome.Lookup = s.ResolveClaim(ctx, acct)
	switch outcome.Lookup.Status {
	case model.LookupNone:
		log.Info("no available claims")
		return outcome
	case model.LookupError:
		log.Info("error checking claims")
		return outcome
	}

	outcome.Claimed, outcome.StatusCode = s.SubmitClaim(ctx, acct, outcome.Lookup.ID)
	return outcome
}
