package timing

import (
	"testing"
	"time"
)

func TestCalibrateIsNonNegative(t *testing.T) {
	cal := Calibrate(100)
	if cal.Overhead < 0 {
		t.Fatalf("negative overhead: %s", cal.Overhead)
	}
	if Calibrate(0).Overhead < 0 {
		t.Fatalf("negative overhead for zero repeat")
	}
}

func TestMeasureSubtractsOverhead(t *testing.T) {
	cal := Calibration{Overhead: time.Hour}
	res, err := Measure(cal, 5, 10, func() bool { return true })
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if res.Best != 0 || res.Total != 0 {
		t.Fatalf("expected overhead to clamp at zero, got %+v", res)
	}
	if res.BestGBps() != 0 || res.BestNsPerByte() != 0 {
		t.Fatalf("expected zero derived figures, got %+v", res)
	}
}

func TestMeasureCountsRuns(t *testing.T) {
	calls := 0
	res, err := Measure(Calibration{}, 7, 4, func() bool {
		calls++
		time.Sleep(time.Millisecond)
		return true
	})
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if calls != 7 || res.Repeat != 7 {
		t.Fatalf("expected 7 runs, got calls=%d repeat=%d", calls, res.Repeat)
	}
	if res.Best < time.Millisecond || res.Avg() < res.Best {
		t.Fatalf("unexpected durations: best=%s avg=%s", res.Best, res.Avg())
	}
	if res.BestNsPerByte() < float64(time.Millisecond)/4 {
		t.Fatalf("unexpected ns/byte: %f", res.BestNsPerByte())
	}
	if res.MarginGBps() < 0 {
		t.Fatalf("avg throughput above best: %f", res.MarginGBps())
	}
}

func TestMeasureStopsOnUnexpectedResult(t *testing.T) {
	calls := 0
	_, err := Measure(Calibration{}, 10, 1, func() bool {
		calls++
		return calls < 3
	})
	if err == nil || calls != 3 {
		t.Fatalf("expected stop on third run, got calls=%d err=%v", calls, err)
	}
	if _, err := Measure(Calibration{}, 0, 1, func() bool { return true }); err == nil {
		t.Fatalf("expected repeat error")
	}
}
