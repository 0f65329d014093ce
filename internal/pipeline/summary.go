package pipeline

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ppiankov/pointclaim/internal/model"
)

// RenderSummary writes a per-source table and refresh totals to w
func RenderSummary(w io.Writer, report *model.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"DB", "Accounts", "Dashboard OK", "Claimed", "Status"})

	totalAccounts, totalClaimed := 0, 0
	for _, src := range report.Sources {
		status := "done"
		if src.Skipped {
			status = "skipped"
		}
		t.AppendRow(table.Row{
			src.DBID,
			src.Accounts,
			fmt.Sprintf("%d/%d", src.DashboardOKCount(), len(src.Dashboard)),
			fmt.Sprintf("%d/%d", src.ClaimedCount(), len(src.Claims)),
			status,
		})
		totalAccounts += src.Accounts
		totalClaimed += src.ClaimedCount()
	}

	t.AppendFooter(table.Row{"Total", totalAccounts, "", totalClaimed, ""})
	t.Render()

	if r := report.Refresh; r != nil {
		switch {
		case r.FetchFailed:
			fmt.Fprintf(w, "\n  Refresh:   phone list unavailable\n")
		case r.NotList:
			fmt.Fprintf(w, "\n  Refresh:   phone list was not a list\n")
		default:
			fmt.Fprintf(w, "\n  Refresh:   %d/%d refreshed (%d failed)\n", r.Refreshed, r.Total, r.Failed)
		}
	}

	fmt.Fprintf(w, "  Elapsed:   %.2f seconds\n", report.Elapsed.Seconds())
}
