package daemon

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/healthwatcher/gluco/pkg/events"
	"github.com/healthwatcher/gluco/pkg/summary"
	"github.com/healthwatcher/gluco/pkg/types"
)

// maxReportValues bounds the estimates kept between two reports. Older values
// are dropped first.
const maxReportValues = 10000

var cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// reporter collects the estimates served by the daemon and, when scheduled,
// periodically summarizes and clears them.
type reporter struct {
	mu       sync.Mutex
	values   []float64
	since    time.Time
	schedule string
	cron     *cron.Cron
	entry    cron.EntryID
	now      func() time.Time
	onReport func(events.SummaryEvent)
}

var report = newReporter()

func newReporter() *reporter {
	return &reporter{
		since: time.Now(),
		now:   time.Now,
		onReport: func(ev events.SummaryEvent) {
			publish(events.Summary, ev)
		},
	}
}

func (r *reporter) Add(glucose float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values = append(r.values, glucose)
	if len(r.values) > maxReportValues {
		r.values = r.values[len(r.values)-maxReportValues:]
	}
}

// Current summarizes the open window without clearing it.
func (r *reporter) Current() types.ReportResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	resp := types.ReportResponse{
		Since:    r.since.Unix(),
		Schedule: r.schedule,
	}
	if r.cron != nil {
		resp.NextRun = r.cron.Entry(r.entry).Next.Unix()
	}
	if s, err := summary.Summarize(r.values, conf.TargetLow(), conf.TargetHigh()); err == nil {
		resp.Summary = &s
	}
	return resp
}

// Flush closes the current window and reports it. An empty window is
// skipped but still restarted.
func (r *reporter) Flush() {
	r.mu.Lock()
	values := r.values
	since := r.since
	until := r.now()
	r.values = nil
	r.since = until
	r.mu.Unlock()

	s, err := summary.Summarize(values, conf.TargetLow(), conf.TargetHigh())
	if errors.Is(err, summary.ErrNoValues) {
		logrus.Debug("no estimates since last report")
		return
	}
	if err != nil {
		logrus.Errorf("failed to summarize estimates: %v", err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"count":   s.Count,
		"mean":    s.Mean,
		"min":     s.Min,
		"max":     s.Max,
		"below":   s.BelowRange,
		"inRange": s.InRange,
		"above":   s.AboveRange,
	}).Info("glucose report")

	if r.onReport != nil {
		r.onReport(events.SummaryEvent{
			Summary: s,
			Since:   since.Unix(),
			Until:   until.Unix(),
		})
	}
}

// Start reports on the cron schedule until Stop is called.
func (r *reporter) Start(schedule string) error {
	c := cron.New(cron.WithParser(cronParser))
	id, err := c.AddFunc(schedule, r.Flush)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.schedule = schedule
	r.cron = c
	r.entry = id
	r.mu.Unlock()

	c.Start()
	logrus.WithFields(logrus.Fields{
		"schedule": schedule,
		"next":     c.Entry(id).Next,
	}).Info("glucose reports scheduled")

	return nil
}

// Stop waits for a running report to finish.
func (r *reporter) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.schedule = ""
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func getReport(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, report.Current())
}
