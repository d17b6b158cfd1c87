package demographics

import (
	"testing"
	"time"
)

func TestSignupSeriesSortsAcrossYearBoundary(t *testing.T) {
	engine := NewEngine(testDomains, nil)

	records := []UserRecord{
		{UserID: "u1", CreatedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{UserID: "u2", CreatedAt: time.Date(2023, 12, 28, 10, 0, 0, 0, time.UTC)},
		{UserID: "u3", CreatedAt: time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)},
		{UserID: "u4", CreatedAt: time.Date(2023, 4, 2, 10, 0, 0, 0, time.UTC)},
	}

	series := engine.signupSeries(records)

	wantLabels := []string{"Apr 2023", "Dec 2023", "Jan 2024"}
	if len(series) != len(wantLabels) {
		t.Fatalf("expected %d points, got %d: %+v", len(wantLabels), len(series), series)
	}
	for i, want := range wantLabels {
		if series[i].Label != want {
			t.Errorf("point %d label = %q, want %q", i, series[i].Label, want)
		}
	}
	if series[2].Count != 2 {
		t.Errorf("Jan 2024 count = %d, want 2", series[2].Count)
	}
}

func TestSignupSeriesBucketsInUTC(t *testing.T) {
	engine := NewEngine(testDomains, nil)
	offset := time.FixedZone("UTC+10", 10*60*60)

	// Local time is already February, but it is still January in UTC.
	records := []UserRecord{
		{UserID: "u1", CreatedAt: time.Date(2024, 2, 1, 5, 0, 0, 0, offset)},
	}

	series := engine.signupSeries(records)
	if len(series) != 1 || series[0].Label != "Jan 2024" {
		t.Fatalf("expected single Jan 2024 point, got %+v", series)
	}
}

func TestSignupSeriesEmptyInput(t *testing.T) {
	engine := NewEngine(testDomains, nil)
	if series := engine.signupSeries(nil); len(series) != 0 {
		t.Fatalf("expected empty series, got %+v", series)
	}
}
