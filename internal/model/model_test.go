package model

import "testing"

func TestAccountMSISDN(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"%2B959123456789", "+959123456789"},
		{"+959123456789", "+959123456789"},
		{"09123456789", "09123456789"},
		{"%2B959%2B959", "+959+959"},
		{"%2B951", "%2B951"},
	}

	for _, tt := range tests {
		got := Account{Phone: tt.phone}.MSISDN()
		if got != tt.want {
			t.Errorf("MSISDN(%q) = %q, want %q", tt.phone, got, tt.want)
		}
	}
}

func TestClaimLookupString(t *testing.T) {
	tests := []struct {
		lookup ClaimLookup
		want   string
	}{
		{ClaimLookup{Status: LookupAvailable, ID: "42"}, "42"},
		{ClaimLookup{Status: LookupNone}, "no"},
		{ClaimLookup{Status: LookupError}, "error"},
	}

	for _, tt := range tests {
		if got := tt.lookup.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSourceReportCounts(t *testing.T) {
	r := &SourceReport{
		Dashboard: []*DashboardOutcome{{OK: true}, {OK: false}, {OK: true}},
		Claims:    []*ClaimOutcome{{Claimed: true}, {Claimed: false}},
	}

	if got := r.DashboardOKCount(); got != 2 {
		t.Errorf("DashboardOKCount() = %d, want 2", got)
	}
	if got := r.ClaimedCount(); got != 1 {
		t.Errorf("ClaimedCount() = %d, want 1", got)
	}

	empty := &SourceReport{Skipped: true}
	if empty.DashboardOKCount() != 0 || empty.ClaimedCount() != 0 {
		t.Error("skipped source should have zero counts")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Source.DBIDs) != 4 {
		t.Errorf("expected 4 default db ids, got %v", cfg.Source.DBIDs)
	}
	if cfg.Refresh.Workers != 0 {
		t.Errorf("refresh should be unbounded by default, got %d", cfg.Refresh.Workers)
	}
	if cfg.HTTP.Timeout != 0 {
		t.Errorf("no timeout by default, got %v", cfg.HTTP.Timeout)
	}
	if cfg.LogServer.Addr != "0.0.0.0:5000" {
		t.Errorf("unexpected log server addr %q", cfg.LogServer.Addr)
	}
}
