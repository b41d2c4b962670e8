// Package metrics defines and registers all custom Prometheus metrics for the
// voter platform API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voterplatform"

// ── Import metrics ────────────────────────────────────────────────────────────

// ImportRowsTotal counts rows processed during import commits.
// Label:
//   - result: "imported" or "error"
var ImportRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Total number of import rows processed, labelled by result.",
	},
	[]string{"result"},
)

// ImportSessionsTotal counts import session lifecycle events.
// Label:
//   - status: "uploaded", "completed", or "parse_error"
var ImportSessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_sessions_total",
		Help:      "Total number of import session events, labelled by status.",
	},
	[]string{"status"},
)

// ImportCommitDuration measures how long a full map-columns commit takes.
var ImportCommitDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_commit_duration_seconds",
		Help:      "Duration of an import commit from mapping to session completion.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "inactive"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// ── Voter metrics ─────────────────────────────────────────────────────────────

// VotersAssignedTotal counts voters assigned to karyakartas in batch operations.
var VotersAssignedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "voters_assigned_total",
		Help:      "Total number of voters assigned to field workers.",
	},
)
