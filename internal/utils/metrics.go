package utils

import (
	"time"

	"github.com/SearchIntel/getmyhousevalue-backend/pkg/metrics"
)

func RecordUpstreamFetch(source, outcome string, elapsed time.Duration) {
	metrics.UpstreamFetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	metrics.UpstreamFetchesTotal.WithLabelValues(source, outcome).Inc()
}

func RecordUpstreamSkipped(source string) {
	metrics.UpstreamFetchesTotal.WithLabelValues(source, "skipped").Inc()
}

func RecordUpstreamRecords(source string, n int) {
	metrics.UpstreamRecordsReturned.WithLabelValues(source).Observe(float64(n))
}
