package daemon

import (
	"sync"
	"testing"
	"time"
)

func TestTimeSeriesRecorder_GetRecordsIn(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		records []time.Time
		last    time.Duration
		want    int
	}{
		{
			name: "all records in range",
			records: []time.Time{
				now.Add(-900 * time.Millisecond),
				now.Add(-500 * time.Millisecond),
				now.Add(-50 * time.Millisecond),
			},
			last: time.Second,
			want: 3,
		},
		{
			name: "old records are not counted",
			records: []time.Time{
				now.Add(-3 * time.Second),
				now.Add(-2 * time.Second),
				now.Add(-400 * time.Millisecond),
				now.Add(-100 * time.Millisecond),
			},
			last: time.Second,
			want: 2,
		},
		{
			name: "no records",
			last: time.Second,
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &TimeSeriesRecorder{
				MaxRecordCount: 10,
				Records:        tt.records,
				mu:             &sync.Mutex{},
			}
			if got := r.GetRecordsIn(tt.last); got != tt.want {
				t.Errorf("GetRecordsIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeSeriesRecorder_MaxRecordCount(t *testing.T) {
	r := NewTimeSeriesRecorder(3)
	base := time.Now()
	for i := 0; i < 5; i++ {
		r.AddRecord(base.Add(time.Duration(i) * time.Millisecond))
	}

	records := r.GetRecords()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !records[0].Equal(base.Add(2 * time.Millisecond)) {
		t.Errorf("oldest record = %v, want %v", records[0], base.Add(2*time.Millisecond))
	}
	if !r.GetLastRecord().Equal(base.Add(4 * time.Millisecond)) {
		t.Errorf("last record = %v", r.GetLastRecord())
	}

	last := r.GetLastRecords(time.Minute)
	if len(last) != 3 || !last[0].After(last[2]) {
		t.Errorf("expected newest first, got %v", last)
	}

	r.ClearRecords()
	if !r.GetLastRecord().IsZero() {
		t.Errorf("expected no records after clear")
	}
}
