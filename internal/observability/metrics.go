// Package observability exposes Prometheus metrics for the training session.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/sequence"
)

// Config outcomes recorded by RecordConfig.
const (
	ConfigAccepted  = "accepted"
	ConfigDuplicate = "duplicate"
)

var (
	phaseGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "balance_trainer",
		Subsystem: "session",
		Name:      "phase",
		Help:      "Set to 1 for the phase the session is currently in.",
	}, []string{"phase"})

	repetitionsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "balance_trainer",
		Subsystem: "session",
		Name:      "repetitions_completed_total",
		Help:      "Number of single-leg-stance repetitions completed without a restart.",
	})

	restartsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "balance_trainer",
		Subsystem: "session",
		Name:      "restarts_total",
		Help:      "Number of holds restarted after balance loss.",
	})

	zoneReportsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "balance_trainer",
		Subsystem: "feedback",
		Name:      "zone_reports_total",
		Help:      "Posture zone reports handled, by zone and foot.",
	}, []string{"zone", "foot"})

	configsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "balance_trainer",
		Subsystem: "store",
		Name:      "configs_total",
		Help:      "Exercise configurations received, by outcome.",
	}, []string{"result"})

	lastConfigGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "balance_trainer",
		Subsystem: "store",
		Name:      "last_config_timestamp_seconds",
		Help:      "Unix timestamp of the most recently accepted exercise configuration.",
	})

	tickHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "balance_trainer",
		Subsystem: "session",
		Name:      "tick_duration_seconds",
		Help:      "Time spent applying events and resuming the sequencer for one frame.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
	})

	journalDroppedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "balance_trainer",
		Subsystem: "journal",
		Name:      "entries_dropped_total",
		Help:      "Journal entries dropped because the buffer was full.",
	})
)

func init() {
	prometheus.MustRegister(
		phaseGauge,
		repetitionsCounter,
		restartsCounter,
		zoneReportsCounter,
		configsCounter,
		lastConfigGauge,
		tickHistogram,
		journalDroppedCounter,
	)
}

// RecordPhase marks phase as the active one.
func RecordPhase(phase sequence.Phase) {
	for _, p := range sequence.Phases {
		value := 0.0
		if p == phase {
			value = 1
		}
		phaseGauge.WithLabelValues(string(p)).Set(value)
	}
}

// RecordZoneReport counts one handled zone report.
func RecordZoneReport(zone domain.ZoneCode, foot domain.Foot) {
	label := "unknown"
	if zone.Valid() {
		label = strconv.Itoa(int(zone))
	}
	zoneReportsCounter.WithLabelValues(label, string(foot)).Inc()
}

// RecordConfig counts a received configuration by outcome and, when accepted,
// updates the arrival watermark.
func RecordConfig(result string, ts time.Time) {
	configsCounter.WithLabelValues(result).Inc()
	if result == ConfigAccepted && !ts.IsZero() {
		lastConfigGauge.Set(float64(ts.Unix()))
	}
}

// ObserveTick records the duration of one session frame.
func ObserveTick(d time.Duration) {
	tickHistogram.Observe(d.Seconds())
}

// RecordJournalDrop counts an entry the journal could not buffer.
func RecordJournalDrop() {
	journalDroppedCounter.Inc()
}

// SessionMetrics feeds sequencer progress and zone reports into the collectors.
type SessionMetrics struct{}

func (SessionMetrics) PhaseChanged(p sequence.Progress) {
	RecordPhase(p.Phase)
}

func (SessionMetrics) RepetitionCompleted(sequence.Progress) {
	repetitionsCounter.Inc()
}

func (SessionMetrics) RestartTriggered(sequence.Progress) {
	restartsCounter.Inc()
}

func (SessionMetrics) ZoneReported(zone domain.ZoneCode, foot domain.Foot) {
	RecordZoneReport(zone, foot)
}
