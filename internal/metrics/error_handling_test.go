package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestMetricCollectionErrorHandling tests that metric recording never
// crashes the caller: errors are logged and the operation continues
func TestMetricCollectionErrorHandling(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name      string
		operation func(*Metrics)
	}{
		{
			name: "RecordHTTPRequest should not panic",
			operation: func(m *Metrics) {
				m.RecordHTTPRequest("GET", "/test", 200, time.Second)
			},
		},
		{
			name: "RecordDBQuery should not panic",
			operation: func(m *Metrics) {
				m.RecordDBQuery("select", "test_table", time.Millisecond, nil)
			},
		},
		{
			name: "RecordExternalAPICall should not panic",
			operation: func(m *Metrics) {
				m.RecordExternalAPICall("/api/test", "GET", 200, time.Second, nil)
			},
		},
		{
			name: "IncrementStudyCreated should not panic",
			operation: func(m *Metrics) {
				m.IncrementStudyCreated()
			},
		},
		{
			name: "IncrementMembershipTransition should not panic",
			operation: func(m *Metrics) {
				m.IncrementMembershipTransition("accepted")
			},
		},
		{
			name: "IncrementDirectorySearch should not panic",
			operation: func(m *Metrics) {
				m.IncrementDirectorySearch("LATEST")
			},
		},
		{
			name: "SetStudiesTotal should not panic",
			operation: func(m *Metrics) {
				m.SetStudiesTotal(100)
			},
		},
		{
			name: "SetOutboxPendingTotal should not panic",
			operation: func(m *Metrics) {
				m.SetOutboxPendingTotal(50)
			},
		},
		{
			name: "UpdateDBStats should not panic",
			operation: func(m *Metrics) {
				stats := sql.DBStats{
					OpenConnections: 10,
					InUse:           5,
					Idle:            5,
				}
				m.UpdateDBStats(stats)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create metrics with proper registry
			registry := prometheus.NewRegistry()
			m := NewWithRegistry(registry, logger)

			// This should not panic even if there are issues
			assert.NotPanics(t, func() {
				tt.operation(m)
			}, "Metric operation should not panic")
		})
	}
}

// TestMetricCollectionContinuesAfterError tests that request processing continues after metric errors
func TestMetricCollectionContinuesAfterError(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, logger)

	// Simulate multiple operations - all should succeed without panic
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/api/studies", 200, time.Millisecond*100)
		m.RecordHTTPRequest("POST", "/api/studies", 201, time.Millisecond*150)
		m.RecordDBQuery("select", "studies", time.Millisecond*10, nil)
		m.RecordDBQuery("insert", "memberships", time.Millisecond*20, errors.New("test error"))
		m.RecordExternalAPICall("/api/internal/notifications", "POST", 200, time.Millisecond*50, nil)
		m.IncrementStudyCreated()
		m.IncrementMembershipTransition("join_requested")
		m.SetStudiesTotal(100)
		m.SetOpenStudiesTotal(50)
	}, "Multiple metric operations should not panic")
}

// TestSafeExecuteWithPanic tests that safeExecute properly handles panics
func TestSafeExecuteWithPanic(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, logger)

	// Test that a panic inside safeExecute is caught
	assert.NotPanics(t, func() {
		m.safeExecute("test_panic", func() {
			panic("intentional panic for testing")
		})
	}, "safeExecute should catch panics")
}

// TestMetricsWithNilLogger tests that metrics work even without a logger
func TestMetricsWithNilLogger(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, nil)

	// Should not panic even without a logger
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/test", 200, time.Second)
		m.RecordDBQuery("select", "test", time.Millisecond, nil)
		m.IncrementStudyCreated()
	}, "Metrics should work without a logger")
}

// TestCollectorPanicRecovery tests that the collector recovers from panics
func TestCollectorPanicRecovery(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, logger)

	// Create a collector with nil db to potentially cause issues
	collector := &BusinessMetricsCollector{
		db:      nil,
		metrics: m,
		logger:  logger,
	}

	// The collect method should not panic even with nil db
	assert.NotPanics(t, func() {
		collector.collect()
	}, "Collector should handle errors gracefully")
}
