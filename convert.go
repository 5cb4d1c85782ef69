package utf8csv

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Converter turns the text of a non-empty field into a value.
type Converter[T any] func(text string) (T, error)

// FromString adapts a conversion that reports failure by returning false.
func FromString[T any](fn func(text string) (T, bool)) Converter[T] {
	return func(text string) (T, error) {
		v, ok := fn(text)
		if !ok {
			var zero T
			return zero, fmt.Errorf("%q is not a valid %T", text, zero)
		}
		return v, nil
	}
}

// FromInt parses the field as a decimal int and passes it to fn.
func FromInt[T any](fn func(i int) (T, bool)) Converter[T] {
	return func(text string) (T, error) {
		var zero T
		i, err := strconv.Atoi(text)
		if err != nil {
			return zero, err
		}
		v, ok := fn(i)
		if !ok {
			return zero, fmt.Errorf("%d is not a valid %T", i, zero)
		}
		return v, nil
	}
}

// Text converts a field using the UnmarshalText method of *T.
func Text[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](text string) (T, error) {
	var v T
	err := PT(&v).UnmarshalText([]byte(text))
	return v, err
}

// ParseInt parses a base 10 int.
func ParseInt(text string) (int, error) {
	return strconv.Atoi(text)
}

// ParseInt8 parses a base 10 int8, failing with strconv.ErrRange when it overflows.
func ParseInt8(text string) (int8, error) {
	v, err := strconv.ParseInt(text, 10, 8)
	return int8(v), err
}

// ParseInt16 parses a base 10 int16.
func ParseInt16(text string) (int16, error) {
	v, err := strconv.ParseInt(text, 10, 16)
	return int16(v), err
}

// ParseInt32 parses a base 10 int32.
func ParseInt32(text string) (int32, error) {
	v, err := strconv.ParseInt(text, 10, 32)
	return int32(v), err
}

// ParseInt64 parses a base 10 int64.
func ParseInt64(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}

// ParseFloat32 parses a float32 with '.' as the decimal separator.
func ParseFloat32(text string) (float32, error) {
	v, err := strconv.ParseFloat(text, 32)
	return float32(v), err
}

// ParseFloat64 parses a float64 with '.' as the decimal separator.
func ParseFloat64(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

// ParseBool accepts the strings understood by strconv.ParseBool: 1, t, T,
// TRUE, true, True and their false counterparts.
func ParseBool(text string) (bool, error) {
	return strconv.ParseBool(text)
}

// ParseDecimal parses a number written with either '.' or ',' as the decimal
// separator. Grouping separators are not accepted.
func ParseDecimal(text string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(text, ",", "."))
}

// TimeLayout is a reusable time format. A nil Location means UTC.
type TimeLayout struct {
	Layout   string
	Location *time.Location
}

// Parse parses text with the layout in the layout's location.
func (l TimeLayout) Parse(text string) (time.Time, error) {
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(l.Layout, text, loc)
}

// ParseTime returns a converter for layout, interpreting times in UTC.
func ParseTime(layout string) Converter[time.Time] {
	return TimeLayout{Layout: layout}.Parse
}
