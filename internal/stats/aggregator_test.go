package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/statuswatch/statuswatch/internal/domain"
	"github.com/statuswatch/statuswatch/internal/history"
	"github.com/statuswatch/statuswatch/internal/registry"
)

func setup(t *testing.T, ids ...string) (*Aggregator, *history.Store) {
	t.Helper()
	hist := history.New()
	reg := registry.New(hist)
	defs := make([]domain.Monitor, 0, len(ids))
	for _, id := range ids {
		defs = append(defs, domain.Monitor{
			ID:      domain.MonitorID(id),
			Name:    id,
			Target:  "https://" + id + ".example.com",
			Cadence: "*/2 * * * *",
		})
	}
	reg.Load(defs)
	return New(reg, hist), hist
}

func fixedNow(a *Aggregator, now time.Time) { a.now = func() time.Time { return now } }

func TestStatus_UpDownUpScenario(t *testing.T) {
	now := time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC)
	a, hist := setup(t, "m1")
	fixedNow(a, now)

	results := []struct {
		outcome domain.Outcome
		latency float64
		age     time.Duration
	}{
		{domain.OutcomeUp, 50, 3 * time.Hour},
		{domain.OutcomeDown, 5000, 2 * time.Hour},
		{domain.OutcomeUp, 60, time.Hour},
	}
	for _, r := range results {
		hist.Append("m1", domain.CheckResult{
			MonitorID: "m1",
			Outcome:   r.outcome,
			LatencyMS: r.latency,
			CheckedAt: now.Add(-r.age),
		})
	}

	st, err := a.Status("m1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Uptime24h != 66.67 {
		t.Fatalf("want uptime24h 66.67, got %v", st.Uptime24h)
	}
	if st.TotalChecks != 3 {
		t.Fatalf("want 3 total checks, got %d", st.TotalChecks)
	}
	if st.Status != "up" {
		t.Fatalf("want latest status up, got %q", st.Status)
	}
	if st.LatencyMS != 60 {
		t.Fatalf("want latency 60, got %v", st.LatencyMS)
	}
}

func TestUptime_EmptyWindowIsZero(t *testing.T) {
	now := time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC)
	a, hist := setup(t, "m1")
	fixedNow(a, now)

	// no history at all
	st, err := a.Status("m1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Uptime24h != 0 || st.Uptime7d != 0 {
		t.Fatalf("empty history: want 0/0, got %v/%v", st.Uptime24h, st.Uptime7d)
	}
	if st.Status != StatusUnknown || st.LastChecked != nil {
		t.Fatalf("empty history: want unknown status, got %+v", st)
	}

	// only stale results outside 24h but inside 7d
	hist.Append("m1", domain.CheckResult{MonitorID: "m1", Outcome: domain.OutcomeUp, CheckedAt: now.Add(-48 * time.Hour)})
	st, _ = a.Status("m1")
	if st.Uptime24h != 0 {
		t.Fatalf("out-of-window results must not count: got %v", st.Uptime24h)
	}
	if st.Uptime7d != 100 {
		t.Fatalf("want uptime7d 100, got %v", st.Uptime7d)
	}
}

func TestStatus_UnknownMonitor(t *testing.T) {
	a, _ := setup(t, "m1")
	if _, err := a.Status("ghost"); !errors.Is(err, domain.ErrMonitorNotFound) {
		t.Fatalf("want ErrMonitorNotFound, got %v", err)
	}
	if _, err := a.Detail("ghost"); !errors.Is(err, domain.ErrMonitorNotFound) {
		t.Fatalf("Detail: want ErrMonitorNotFound, got %v", err)
	}
}

func TestStatusAll_RegistryOrderAndCounts(t *testing.T) {
	now := time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC)
	a, hist := setup(t, "b", "a")
	fixedNow(a, now)

	hist.Append("a", domain.CheckResult{MonitorID: "a", Outcome: domain.OutcomeDown, StatusCode: 500, CheckedAt: now.Add(-time.Minute)})

	all := a.StatusAll()
	if all.TotalMonitors != 2 || len(all.Monitors) != 2 {
		t.Fatalf("want 2 monitors, got %+v", all)
	}
	if all.Monitors[0].ID != "b" || all.Monitors[1].ID != "a" {
		t.Fatalf("want registry load order b,a: %+v", all.Monitors)
	}
	if all.Monitors[1].Status != "down" || all.Monitors[1].StatusCode != 500 {
		t.Fatalf("unexpected status for a: %+v", all.Monitors[1])
	}
	if !all.LastUpdated.Equal(now) {
		t.Fatalf("want last_updated=now, got %v", all.LastUpdated)
	}
}

func TestDetail_CapsHistoryAtMostRecent24(t *testing.T) {
	now := time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC)
	a, hist := setup(t, "m1")
	fixedNow(a, now)

	for i := 0; i < 40; i++ {
		hist.Append("m1", domain.CheckResult{
			MonitorID: "m1",
			Outcome:   domain.OutcomeUp,
			LatencyMS: float64(i),
			CheckedAt: now.Add(time.Duration(i-40) * time.Minute),
		})
	}

	d, err := a.Detail("m1")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if len(d.History) != 24 {
		t.Fatalf("want 24 history entries, got %d", len(d.History))
	}
	if d.History[len(d.History)-1].LatencyMS != 39 {
		t.Fatalf("want newest entry last, got %+v", d.History[len(d.History)-1])
	}
	if d.History[0].LatencyMS != 16 {
		t.Fatalf("want the 24 most recent entries, oldest kept = 16, got %v", d.History[0].LatencyMS)
	}
	if d.TotalChecks != 40 {
		t.Fatalf("total checks should cover full retention, got %d", d.TotalChecks)
	}
}

func TestUptime_Rounding(t *testing.T) {
	now := time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC)
	a, hist := setup(t, "m1")
	fixedNow(a, now)

	// 1 up of 3 => 33.333... -> 33.33
	outcomes := []domain.Outcome{domain.OutcomeUp, domain.OutcomeDown, domain.OutcomeDown}
	for i, o := range outcomes {
		hist.Append("m1", domain.CheckResult{MonitorID: "m1", Outcome: o, CheckedAt: now.Add(time.Duration(-i-1) * time.Minute)})
	}
	st, _ := a.Status("m1")
	if st.Uptime24h != 33.33 {
		t.Fatalf("want 33.33, got %v", st.Uptime24h)
	}
}
