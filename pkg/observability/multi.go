package observability

import "brainstorm/application/ports"

// MultiMetrics fans bus measurements out to several sinks
type MultiMetrics []ports.Metrics

// Increment implements ports.Metrics
func (m MultiMetrics) Increment(metric, label string) {
	for _, sink := range m {
		sink.Increment(metric, label)
	}
}

// StartTimer implements ports.Metrics
func (m MultiMetrics) StartTimer(metric, label string) ports.Timer {
	timers := make(multiTimer, 0, len(m))
	for _, sink := range m {
		timers = append(timers, sink.StartTimer(metric, label))
	}
	return timers
}

type multiTimer []ports.Timer

func (t multiTimer) Stop() {
	for _, timer := range t {
		timer.Stop()
	}
}
