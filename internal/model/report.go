package model

import "time"

// LookupStatus classifies the result of a claim-list lookup
type LookupStatus int

const (
	LookupAvailable LookupStatus = iota // An enabled claim id was found
	LookupNone                          // No enabled claim
	LookupError                         // Lookup request failed
)

// Sentinels used when a ClaimLookup is rendered as a claim id
const (
	ClaimIDNone  = "no"
	ClaimIDError = "error"
)

// ClaimLookup is the outcome of resolving a claimable id for one account
type ClaimLookup struct {
	Status LookupStatus
	ID     string // Set only when Status is LookupAvailable
}

// String renders the lookup as a claim id or one of the "no"/"error" sentinels
func (l ClaimLookup) String() string {
	switch l.Status {
	case LookupAvailable:
		return l.ID
	case LookupNone:
		return ClaimIDNone
	default:
		return ClaimIDError
	}
}

// ClaimOutcome is the result of a full claim flow for one account.
// Claimed is false for every path except an HTTP 200 from the claim endpoint.
type ClaimOutcome struct {
	Phone      string      `json:"phone"`
	Lookup     ClaimLookup `json:"-"`
	Claimed    bool        `json:"claimed"`
	StatusCode int         `json:"status_code,omitempty"` // Claim endpoint status, 0 if never called
}

// GetError always returns nil; a failed claim is reported through Claimed
func (o *ClaimOutcome) GetError() error {
	return nil
}

// DashboardOutcome is the result of one dashboard ping
type DashboardOutcome struct {
	Phone      string `json:"phone"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

// GetError returns the transport error of the ping, if any
func (o *DashboardOutcome) GetError() error {
	return o.Err
}

// SourceReport summarizes processing of one data source
type SourceReport struct {
	DBID      string              `json:"db_id"`
	Accounts  int                 `json:"accounts"`
	Skipped   bool                `json:"skipped"` // Fetch failed or returned no records
	Dashboard []*DashboardOutcome `json:"dashboard,omitempty"`
	Claims    []*ClaimOutcome     `json:"claims,omitempty"`
}

// ClaimedCount returns how many accounts were claimed successfully
func (r *SourceReport) ClaimedCount() int {
	n := 0
	for _, c := range r.Claims {
		if c.Claimed {
			n++
		}
	}
	return n
}

// DashboardOKCount returns how many dashboard pings returned HTTP 200
func (r *SourceReport) DashboardOKCount() int {
	n := 0
	for _, d := range r.Dashboard {
		if d.OK {
			n++
		}
	}
	return n
}

// RefreshReport summarizes a phone-number refresh pass
type RefreshReport struct {
	Total       int  `json:"total"`
	Refreshed   int  `json:"refreshed"`
	Failed      int  `json:"failed"`
	NotList     bool `json:"not_list"`     // Phone list response was not a JSON array
	FetchFailed bool `json:"fetch_failed"` // Phone list could not be fetched
}

// RunReport summarizes one complete run
type RunReport struct {
	Sources []*SourceReport `json:"sources"`
	Refresh *RefreshReport  `json:"refresh,omitempty"`
	Elapsed time.Duration   `json:"elapsed"`
}
