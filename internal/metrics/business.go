package metrics

// IncrementStudyCreated increments study creation counter
func (m *Metrics) IncrementStudyCreated() {
	m.safeExecute("IncrementStudyCreated", func() {
		m.StudyCreatedTotal.Inc()
	})
}

// IncrementMembershipTransition counts one lifecycle transition
// (join_requested, accepted, rejected, left, removed)
func (m *Metrics) IncrementMembershipTransition(transition string) {
	m.safeExecute("IncrementMembershipTransition", func() {
		m.MembershipTransitionsTotal.WithLabelValues(transition).Inc()
	})
}

// IncrementDirectorySearch counts one directory query per sort order
func (m *Metrics) IncrementDirectorySearch(sort string) {
	m.safeExecute("IncrementDirectorySearch", func() {
		m.DirectorySearchesTotal.WithLabelValues(sort).Inc()
	})
}

// SetStudiesTotal sets total studies gauge
func (m *Metrics) SetStudiesTotal(count int64) {
	m.safeExecute("SetStudiesTotal", func() {
		m.StudiesTotal.Set(float64(count))
	})
}

// SetOpenStudiesTotal sets open studies gauge
func (m *Metrics) SetOpenStudiesTotal(count int64) {
	m.safeExecute("SetOpenStudiesTotal", func() {
		m.OpenStudiesTotal.Set(float64(count))
	})
}

// SetOutboxPendingTotal sets the pending outbox gauge
func (m *Metrics) SetOutboxPendingTotal(count int64) {
	m.safeExecute("SetOutboxPendingTotal", func() {
		m.OutboxPendingTotal.Set(float64(count))
	})
}
