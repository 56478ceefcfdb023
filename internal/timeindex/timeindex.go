// Package timeindex rounds time series indexes to a fixed sampling grid.
package timeindex

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// How is a rounding method
type How string

const (
	// Nearest rounds to the nearest grid point, exact half-way points round
	// to the even grid multiple
	Nearest How = "nearest"
	// Floor rounds to the largest grid point <= timestamp
	Floor How = "floor"
	// Ceiling rounds to the smallest grid point >= timestamp
	Ceiling How = "ceiling"
)

var (
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrUnknownHow       = errors.New("unknown rounding method")
	ErrOutOfRange       = errors.New("timestamp out of range")
)

// Range of timestamps representable as int64 nanoseconds since epoch
var (
	MinTime = time.Unix(0, math.MinInt64)
	MaxTime = time.Unix(0, math.MaxInt64)
)

// ParseHow parses a rounding method name, case insensitive
func ParseHow(s string) (How, error) {
	h := How(strings.ToLower(strings.TrimSpace(s)))
	switch h {
	case Nearest, Floor, Ceiling:
		return h, nil
	}
	return How(s), fmt.Errorf("%w: %q", ErrUnknownHow, s)
}

// Grid returns grid width in nanoseconds for a frequency in seconds
func Grid(frequency int64) (int64, error) {
	if frequency <= 0 {
		return 0, fmt.Errorf("%w: %d, must be > 0", ErrInvalidFrequency, frequency)
	}
	if frequency > math.MaxInt64/int64(time.Second) {
		return 0, fmt.Errorf("%w: %d seconds overflows nanoseconds", ErrInvalidFrequency, frequency)
	}
	return frequency * int64(time.Second), nil
}

// floorDiv returns q, r such that n = q*g + r and 0 <= r < g
func floorDiv(n, g int64) (int64, int64) {
	q, r := n/g, n%g
	if r < 0 {
		q--
		r += g
	}
	return q, r
}

// RoundNanos quantizes n to a multiple of g. Fails with ErrUnknownHow for an
// unknown method and ErrOutOfRange if the grid point does not fit in int64.
func RoundNanos(n, g int64, how How) (int64, error) {
	q, r := floorDiv(n, g)

	switch how {
	case Floor:
	case Ceiling:
		if r > 0 {
			q++
		}
	case Nearest:
		// r and g-r instead of 2*r to not overflow on wide grids
		switch rest := g - r; {
		case r > rest:
			q++
		case r == rest && q%2 != 0:
			q++
		}
	default:
		return n, fmt.Errorf("%w: %q", ErrUnknownHow, how)
	}

	if q > math.MaxInt64/g || q < math.MinInt64/g {
		return n, fmt.Errorf("%w: %d rounded to %s grid overflows", ErrOutOfRange, n, time.Duration(g))
	}

	return q * g, nil
}

// Rounder rounds indexes. Zero value logs to the logrus standard logger and
// passes unknown methods through unrounded.
type Rounder struct {
	Log logrus.FieldLogger
	// Strict makes unknown methods fail with ErrUnknownHow instead of
	// returning the index unrounded
	Strict bool
}

func (rd *Rounder) log() logrus.FieldLogger {
	if rd.Log == nil {
		return logrus.StandardLogger()
	}
	return rd.Log
}

// RoundIndex rounds each timestamp in ts to a multiple of frequency seconds.
// A new slice is returned, ts is not modified and does not have to be sorted.
func (rd *Rounder) RoundIndex(ts []time.Time, frequency int64, how How) ([]time.Time, error) {
	g, err := Grid(frequency)
	if err != nil {
		return nil, err
	}

	rounded := make([]time.Time, len(ts))
	switch how {
	case Nearest, Floor, Ceiling:
	default:
		if rd.Strict {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHow, how)
		}
		rd.log().WithField("how", string(how)).Info("invalid rounding method, index not rounded")
		copy(rounded, ts)
		return rounded, nil
	}

	for i, t := range ts {
		if t.Before(MinTime) || t.After(MaxTime) {
			return nil, fmt.Errorf("%w: index %d: %s", ErrOutOfRange, i, t)
		}
		n, err := RoundNanos(t.UnixNano(), g, how)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		rounded[i] = time.Unix(0, n).In(t.Location())
	}

	return rounded, nil
}

var defaultRounder = &Rounder{}

// RoundIndex rounds ts using the standard logger and pass through of unknown
// methods, see Rounder.RoundIndex
func RoundIndex(ts []time.Time, frequency int64, how How) ([]time.Time, error) {
	return defaultRounder.RoundIndex(ts, frequency, how)
}
