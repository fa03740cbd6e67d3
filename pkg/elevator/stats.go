package elevator

import "time"

// Stats aggregates external call accounting for the whole bank.
// Stats는 뱅크 전체의 외부 호출 통계를 집계합니다.
type Stats struct {
	TotalCalls     int
	CompletedCalls int
	TotalWaitTime  time.Duration
	QueueLength    int
}

// AvgWaitTime is the mean wait of completed external calls.
func (s Stats) AvgWaitTime() time.Duration {
	if s.CompletedCalls == 0 {
		return 0
	}
	return s.TotalWaitTime / time.Duration(s.CompletedCalls)
}

// AvgWaitTimeMs is AvgWaitTime in milliseconds.
func (s Stats) AvgWaitTimeMs() float64 {
	return float64(s.AvgWaitTime()) / float64(time.Millisecond)
}

// StatsPayload is carried by EventStats.
type StatsPayload struct {
	TotalCalls     int
	CompletedCalls int
	AvgWaitTimeMs  float64
	QueueLength    int
}

func (s Stats) payload() StatsPayload {
	return StatsPayload{
		TotalCalls:     s.TotalCalls,
		CompletedCalls: s.CompletedCalls,
		AvgWaitTimeMs:  s.AvgWaitTimeMs(),
		QueueLength:    s.QueueLength,
	}
}

// recordWait accounts a fulfilled external call.
func (s *Stats) recordWait(wait time.Duration) {
	s.CompletedCalls++
	s.TotalWaitTime += wait
}
