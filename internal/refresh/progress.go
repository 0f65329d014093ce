package refresh

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// tracker counts finished refreshes
type tracker interface {
	Increment()
	Done()
}

type noopTracker struct{}

func (noopTracker) Increment() {}
func (noopTracker) Done()      {}

// barTracker renders a single progress bar to out until Done is called
type barTracker struct {
	tracker  *progress.Tracker
	rendered chan struct{}
}

func newBarTracker(out io.Writer, message string, total int) *barTracker {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true

	t := &progress.Tracker{
		Message: message,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(t)

	b := &barTracker{tracker: t, rendered: make(chan struct{})}
	go func() {
		defer close(b.rendered)
		pw.Render()
	}()

	return b
}

func (b *barTracker) Increment() {
	b.tracker.Increment(1)
}

// Done marks the bar complete and waits for the final frame
func (b *barTracker) Done() {
	b.tracker.MarkAsDone()
	<-b.rendered
}
