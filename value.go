package openspout

import (
	"fmt"
	"strconv"
	"time"
)

// Value is the typed content of a single cell. It is a closed union:
// formatting a cell produces exactly one of Text, Integer, Real, Boolean,
// Instant, Duration or Empty.
type Value interface {
	fmt.Stringer

	// native returns the plain Go value backing the variant. Keeping it
	// unexported closes the union.
	native() any
}

// Text is a string cell value. Pre-formatted date and time text and
// currency amounts are also reported as Text.
type Text string

// Integer is a numeric cell value without a fractional part.
type Integer int64

// Real is a numeric cell value with a fractional part, or one too large to
// represent as an Integer.
type Real float64

// Boolean is a boolean cell value.
type Boolean bool

// Instant is a date cell value parsed from its ISO 8601 attribute.
type Instant time.Time

// Duration is a time cell value parsed from its ISO 8601 duration attribute.
type Duration time.Duration

// Empty is the value of void cells and of cells whose declared type is not
// recognized.
type Empty struct{}

func (v Text) native() any     { return string(v) }
func (v Integer) native() any  { return int64(v) }
func (v Real) native() any     { return float64(v) }
func (v Boolean) native() any  { return bool(v) }
func (v Instant) native() any  { return time.Time(v) }
func (v Duration) native() any { return time.Duration(v) }
func (Empty) native() any      { return nil }

func (v Text) String() string     { return string(v) }
func (v Integer) String() string  { return strconv.FormatInt(int64(v), 10) }
func (v Real) String() string     { return strconv.FormatFloat(float64(v), 'f', -1, 64) }
func (v Boolean) String() string  { return strconv.FormatBool(bool(v)) }
func (v Instant) String() string  { return time.Time(v).Format(time.RFC3339) }
func (v Duration) String() string { return time.Duration(v).String() }
func (Empty) String() string      { return "" }

// Native returns the plain Go value backing v: string, int64, float64,
// bool, time.Time, time.Duration, or nil for Empty and nil values.
func Native(v Value) any {
	if v == nil {
		return nil
	}
	return v.native()
}
