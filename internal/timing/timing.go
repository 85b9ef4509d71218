// Package timing measures how long a backend takes per input byte.
//
// Measurements subtract a calibration overhead, the best observed cost of
// timing an empty call. The calibration is an explicit value so that
// concurrent benchmarks never share hidden state.
package timing

import (
	"math"
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// Calibration is the fixed cost of taking one measurement.
type Calibration struct {
	Overhead time.Duration
}

//go:noinline
func emptyCall(v int) int {
	return v
}

// Calibrate times repeat empty calls and keeps the fastest.
func Calibrate(repeat int) Calibration {
	if repeat <= 0 {
		repeat = 1
	}
	best := time.Duration(math.MaxInt64)
	acc := 0
	for i := 0; i < repeat; i++ {
		start := time.Now()
		acc += emptyCall(i)
		if d := time.Since(start); d < best {
			best = d
		}
	}
	runtime.KeepAlive(acc)
	return Calibration{Overhead: best}
}

// Result summarizes repeated runs over an input of Size bytes.
type Result struct {
	Repeat int
	Size   int
	Best   time.Duration
	Total  time.Duration
}

// Avg is the mean adjusted duration of one run.
func (r Result) Avg() time.Duration {
	if r.Repeat == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Repeat)
}

// BestNsPerByte is the fastest run divided by the input size.
func (r Result) BestNsPerByte() float64 {
	return perByte(r.Best, r.Size)
}

// AvgNsPerByte is the mean run divided by the input size.
func (r Result) AvgNsPerByte() float64 {
	return perByte(r.Avg(), r.Size)
}

// BestGBps is the throughput of the fastest run.
func (r Result) BestGBps() float64 {
	return gbps(r.Size, r.Best)
}

// MarginGBps is how far the mean throughput falls below the best.
func (r Result) MarginGBps() float64 {
	return r.BestGBps() - gbps(r.Size, r.Avg())
}

func perByte(d time.Duration, size int) float64 {
	if size <= 0 {
		return 0
	}
	return float64(d.Nanoseconds()) / float64(size)
}

func gbps(size int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(size) / float64(d.Nanoseconds())
}

// Measure runs fn repeat times. fn reports whether it produced the expected
// result; the first false stops the measurement with an error.
func Measure(cal Calibration, repeat, size int, fn func() bool) (Result, error) {
	if repeat <= 0 {
		return Result{}, errors.New("repeat must be positive")
	}
	res := Result{Repeat: repeat, Size: size, Best: time.Duration(math.MaxInt64)}
	for i := 0; i < repeat; i++ {
		start := time.Now()
		ok := fn()
		d := time.Since(start) - cal.Overhead
		if !ok {
			return Result{}, errors.Errorf("unexpected result on run %d", i+1)
		}
		if d < 0 {
			d = 0
		}
		if d < res.Best {
			res.Best = d
		}
		res.Total += d
	}
	return res, nil
}
