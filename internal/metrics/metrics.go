// Package metrics tracks counters and timings of matching batches.
package metrics

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-job-matcher/internal/errors"
)

// BatchType distinguishes the two ways a batch is submitted.
type BatchType string

const (
	BatchTypeSingle BatchType = "single"
	BatchTypeBulk   BatchType = "bulk"
)

// BatchStats is what one successful batch reports to the metrics collector.
type BatchStats struct {
	JobsReceived int
	JobsKept     int
	Candidates   int
	PairsScored  int64
	PairsPruned  int64
	Duration     time.Duration
}

// MatchMetricsData represents metrics data without mutex (safe for copying)
type MatchMetricsData struct {
	BatchesCompleted     int64                       `json:"batches_completed"`
	BatchesFailed        int64                       `json:"batches_failed"`
	FailuresByKind       map[errors.Kind]int64       `json:"failures_by_kind"`
	BatchesByType        map[BatchType]int64         `json:"batches_by_type"`
	JobsReceived         int64                       `json:"jobs_received"`
	JobsKept             int64                       `json:"jobs_kept"`
	JobsDropped          int64                       `json:"jobs_dropped"`
	PairsScored          int64                       `json:"pairs_scored"`
	PairsPruned          int64                       `json:"pairs_pruned"`
	TotalExecutionTime   time.Duration               `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration               `json:"average_execution_time_ns"`
	AverageByType        map[BatchType]time.Duration `json:"average_execution_time_by_type_ns"`
	LastUpdated          time.Time                   `json:"last_updated"`
}

// MatchMetrics tracks performance metrics for matching batches
type MatchMetrics struct {
	mu                   sync.RWMutex
	batchesCompleted     int64
	batchesFailed        int64
	failuresByKind       map[errors.Kind]int64
	batchesByType        map[BatchType]int64
	jobsReceived         int64
	jobsKept             int64
	pairsScored          int64
	pairsPruned          int64
	totalExecutionTime   time.Duration
	executionTimesByType map[BatchType][]time.Duration
	lastUpdated          time.Time
}

// NewMatchMetrics creates a new metrics collector
func NewMatchMetrics() *MatchMetrics {
	return &MatchMetrics{
		failuresByKind:       make(map[errors.Kind]int64),
		batchesByType:        make(map[BatchType]int64),
		executionTimesByType: make(map[BatchType][]time.Duration),
		lastUpdated:          time.Now(),
	}
}

// RecordBatchCompleted records a successful batch
func (m *MatchMetrics) RecordBatchCompleted(batchType BatchType, stats BatchStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batchesCompleted++
	m.batchesByType[batchType]++
	m.jobsReceived += int64(stats.JobsReceived)
	m.jobsKept += int64(stats.JobsKept)
	m.pairsScored += stats.PairsScored
	m.pairsPruned += stats.PairsPruned
	m.totalExecutionTime += stats.Duration

	// Keep only last 100 execution times per type to prevent memory growth
	m.executionTimesByType[batchType] = append(m.executionTimesByType[batchType], stats.Duration)
	if len(m.executionTimesByType[batchType]) > 100 {
		m.executionTimesByType[batchType] = m.executionTimesByType[batchType][1:]
	}

	m.lastUpdated = time.Now()
}

// RecordBatchFailed records a failed batch under the kind of err
func (m *MatchMetrics) RecordBatchFailed(batchType BatchType, jobsReceived int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batchesFailed++
	m.batchesByType[batchType]++
	m.failuresByKind[errors.KindOf(err)]++
	m.jobsReceived += int64(jobsReceived)
	m.lastUpdated = time.Now()
}

// GetMetrics returns a copy of current metrics
func (m *MatchMetrics) GetMetrics() MatchMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	failuresByKind := make(map[errors.Kind]int64, len(m.failuresByKind))
	for k, v := range m.failuresByKind {
		failuresByKind[k] = v
	}

	batchesByType := make(map[BatchType]int64, len(m.batchesByType))
	for k, v := range m.batchesByType {
		batchesByType[k] = v
	}

	averageByType := make(map[BatchType]time.Duration, len(m.executionTimesByType))
	for batchType, times := range m.executionTimesByType {
		averageByType[batchType] = average(times)
	}

	var averageExecutionTime time.Duration
	if m.batchesCompleted > 0 {
		averageExecutionTime = m.totalExecutionTime / time.Duration(m.batchesCompleted)
	}

	return MatchMetricsData{
		BatchesCompleted:     m.batchesCompleted,
		BatchesFailed:        m.batchesFailed,
		FailuresByKind:       failuresByKind,
		BatchesByType:        batchesByType,
		JobsReceived:         m.jobsReceived,
		JobsKept:             m.jobsKept,
		JobsDropped:          m.jobsReceived - m.jobsKept,
		PairsScored:          m.pairsScored,
		PairsPruned:          m.pairsPruned,
		TotalExecutionTime:   m.totalExecutionTime,
		AverageExecutionTime: averageExecutionTime,
		AverageByType:        averageByType,
		LastUpdated:          m.lastUpdated,
	}
}

// GetSuccessRate returns the success rate (0.0 to 1.0)
func (m *MatchMetrics) GetSuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.batchesCompleted + m.batchesFailed
	if total == 0 {
		return 1.0 // No batches yet, assume 100% success
	}
	return float64(m.batchesCompleted) / float64(total)
}

func average(times []time.Duration) time.Duration {
	if len(times) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range times {
		total += t
	}
	return total / time.Duration(len(times))
}
