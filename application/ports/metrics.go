package ports

// Metrics records counters and timings for the command and query buses
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
}

// Timer measures one operation until Stop
type Timer interface {
	Stop()
}
