package daemon

import (
	"sync"
	"time"
)

// TimeSeriesRecorder records the times of the last N rendered frames.
type TimeSeriesRecorder struct {
	MaxRecordCount int
	Records        []time.Time
	mu             *sync.Mutex
}

// NewTimeSeriesRecorder returns a new TimeSeriesRecorder.
func NewTimeSeriesRecorder(maxRecordCount int) *TimeSeriesRecorder {
	return &TimeSeriesRecorder{
		MaxRecordCount: maxRecordCount,
		Records:        make([]time.Time, 0),
		mu:             &sync.Mutex{},
	}
}

// AddRecordNow adds a new record with the current time.
func (r *TimeSeriesRecorder) AddRecordNow() {
	r.AddRecord(time.Now())
}

// AddRecord adds a new record.
func (r *TimeSeriesRecorder) AddRecord(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strip the monotonic clock reading so that time.Since stays right
	// across system sleep.
	t = t.Round(0)

	if len(r.Records) >= r.MaxRecordCount {
		r.Records = r.Records[1:]
	}
	r.Records = append(r.Records, t)
}

// ClearRecords clears all records.
func (r *TimeSeriesRecorder) ClearRecords() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Records = make([]time.Time, 0)
}

// GetRecords returns a copy of the records, oldest first.
func (r *TimeSeriesRecorder) GetRecords() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]time.Time, len(r.Records))
	copy(out, r.Records)
	return out
}

// GetRecordsIn returns the number of records in the last duration.
func (r *TimeSeriesRecorder) GetRecordsIn(last time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for i := len(r.Records) - 1; i >= 0; i-- {
		if time.Since(r.Records[i]) > last {
			break
		}
		count++
	}
	return count
}

// GetLastRecords returns the records in the last duration, newest first.
func (r *TimeSeriesRecorder) GetLastRecords(last time.Duration) []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []time.Time
	for i := len(r.Records) - 1; i >= 0; i-- {
		record := r.Records[i]
		if time.Since(record) > last {
			break
		}
		records = append(records, record)
	}
	return records
}

// GetLastRecord returns the newest record, or the zero time.
func (r *TimeSeriesRecorder) GetLastRecord() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Records) == 0 {
		return time.Time{}
	}
	return r.Records[len(r.Records)-1]
}
