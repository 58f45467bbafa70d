package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	parseStartedTotal   atomic.Uint64
	parseCompletedTotal atomic.Uint64
	parseFailedTotal    atomic.Uint64
	parseFallbackTotal  atomic.Uint64

	parseJobsReceivedTotal             atomic.Uint64
	parseJobsCompletedTotal            atomic.Uint64
	parseJobsFailedTotal               atomic.Uint64
	parseJobsDeletedUnrecoverableTotal atomic.Uint64

	parseDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncParseStarted increments the started counter.
func IncParseStarted() {
	parseStartedTotal.Add(1)
}

// IncParseCompleted increments the completed counter.
func IncParseCompleted() {
	parseCompletedTotal.Add(1)
}

// IncParseFailed increments the failed counter.
func IncParseFailed() {
	parseFailedTotal.Add(1)
}

// IncParseFallback increments the counter of parses structured by the
// heuristic engine after the LLM path was unavailable or rejected.
func IncParseFallback() {
	parseFallbackTotal.Add(1)
}

// IncParseJobsReceived counts queue messages picked up by the worker.
func IncParseJobsReceived() {
	parseJobsReceivedTotal.Add(1)
}

// IncParseJobsCompleted counts queue messages processed and deleted.
func IncParseJobsCompleted() {
	parseJobsCompletedTotal.Add(1)
}

// IncParseJobsFailed counts queue messages left for redelivery after a
// processing error.
func IncParseJobsFailed() {
	parseJobsFailedTotal.Add(1)
}

// IncParseJobsDeletedUnrecoverable counts malformed messages deleted without
// processing.
func IncParseJobsDeletedUnrecoverable() {
	parseJobsDeletedUnrecoverableTotal.Add(1)
}

// ObserveParseDurationMs records a parse duration in milliseconds.
func ObserveParseDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	parseDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "parse_started_total", "Total parse jobs started", parseStartedTotal.Load())
	writeCounter(&buf, "parse_completed_total", "Total parse jobs completed", parseCompletedTotal.Load())
	writeCounter(&buf, "parse_failed_total", "Total parse jobs failed", parseFailedTotal.Load())
	writeCounter(&buf, "parse_fallback_total", "Total parse jobs structured by the heuristic engine", parseFallbackTotal.Load())
	writeCounter(&buf, "parse_jobs_received_total", "Total queue messages received by the worker", parseJobsReceivedTotal.Load())
	writeCounter(&buf, "parse_jobs_completed_total", "Total queue messages processed and deleted", parseJobsCompletedTotal.Load())
	writeCounter(&buf, "parse_jobs_failed_total", "Total queue messages left for redelivery", parseJobsFailedTotal.Load())
	writeCounter(&buf, "parse_jobs_deleted_unrecoverable_total", "Total malformed queue messages deleted without processing", parseJobsDeletedUnrecoverableTotal.Load())
	writeHistogram(&buf, "parse_duration_ms", "Parse job duration in milliseconds", parseDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
