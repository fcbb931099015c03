package daemon

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/healthwatcher/gluco/pkg/config"
	"github.com/healthwatcher/gluco/pkg/events"
	"github.com/healthwatcher/gluco/pkg/types"
)

func newTestReporter(t *testing.T) (*reporter, chan events.SummaryEvent) {
	t.Helper()
	conf = config.NewFileFromConfig(nil, filepath.Join(t.TempDir(), "config.json"))

	reports := make(chan events.SummaryEvent, 4)
	r := newReporter()
	r.onReport = func(ev events.SummaryEvent) { reports <- ev }
	return r, reports
}

func TestReporterFlush(t *testing.T) {
	r, reports := newTestReporter(t)

	start := time.Unix(1000, 0)
	r.since = start
	r.now = func() time.Time { return start.Add(time.Hour) }

	for _, g := range []float64{60, 100, 120, 200} {
		r.Add(g)
	}

	cur := r.Current()
	if cur.Summary == nil || cur.Summary.Count != 4 {
		t.Fatalf("Current() = %+v, want 4 values", cur)
	}

	r.Flush()
	select {
	case ev := <-reports:
		if ev.Summary.Count != 4 || ev.Summary.Mean != 120 {
			t.Errorf("report summary = %+v", ev.Summary)
		}
		if ev.Summary.BelowRange != 0.25 || ev.Summary.InRange != 0.5 || ev.Summary.AboveRange != 0.25 {
			t.Errorf("report ranges = %+v", ev.Summary)
		}
		if ev.Since != start.Unix() || ev.Until != start.Add(time.Hour).Unix() {
			t.Errorf("report window = %d..%d", ev.Since, ev.Until)
		}
	default:
		t.Fatal("Flush() did not report")
	}

	if cur := r.Current(); cur.Summary != nil {
		t.Errorf("window should be empty after Flush, got %+v", cur.Summary)
	}

	// Empty windows are not reported.
	r.Flush()
	select {
	case ev := <-reports:
		t.Errorf("unexpected report %+v", ev)
	default:
	}
}

func TestReporterBounded(t *testing.T) {
	r, _ := newTestReporter(t)
	for i := 0; i < maxReportValues+10; i++ {
		r.Add(float64(i))
	}
	cur := r.Current()
	if cur.Summary == nil || cur.Summary.Count != maxReportValues {
		t.Fatalf("Current() count = %+v, want %d", cur.Summary, maxReportValues)
	}
	if cur.Summary.Min != 10 {
		t.Errorf("oldest values should be dropped first, min = %v", cur.Summary.Min)
	}
}

func TestReporterSchedule(t *testing.T) {
	r, reports := newTestReporter(t)

	if err := r.Start("not a schedule"); err == nil {
		t.Fatal("Start() with an invalid schedule should fail")
	}

	if err := r.Start("@every 1s"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	cur := r.Current()
	if cur.Schedule != "@every 1s" || cur.NextRun == 0 {
		t.Errorf("Current() schedule = %q next = %d", cur.Schedule, cur.NextRun)
	}

	r.Add(110)
	select {
	case ev := <-reports:
		if ev.Summary.Count != 1 {
			t.Errorf("scheduled report count = %d, want 1", ev.Summary.Count)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no scheduled report")
	}
}

func TestGetReport(t *testing.T) {
	h := newTestRouter(t)
	report = newReporter()

	do(t, h, http.MethodPost, "/estimate/spo2", `{"spo2": 95}`)
	do(t, h, http.MethodPost, "/estimate/spo2", `{"spo2": 100}`)

	w := do(t, h, http.MethodGet, "/report", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /report = %d: %s", w.Code, w.Body.String())
	}
	resp := decode[types.ReportResponse](t, w)
	if resp.Summary == nil || resp.Summary.Count != 2 || resp.Summary.Mean != 115.5 {
		t.Errorf("GET /report = %+v", resp.Summary)
	}
}
