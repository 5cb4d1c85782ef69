package utf8csv

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Decoder reads the fields of one row in order, converting each to a typed
// value. Fields must be decoded in the order they were written; there is no
// rewind. A Decoder is not safe for concurrent use.
type Decoder struct {
	row []string
	pos int
}

// NewDecoder returns a Decoder positioned at the first field of row.
func NewDecoder(row []string) *Decoder {
	return &Decoder{row: row}
}

// Reset points the decoder at the first field of row.
func (d *Decoder) Reset(row []string) {
	d.row = row
	d.pos = 0
}

// Row returns the row being decoded.
func (d *Decoder) Row() []string {
	return d.row
}

// Remaining reports how many fields have not been decoded yet.
func (d *Decoder) Remaining() int {
	return len(d.row) - d.pos
}

func (d *Decoder) next() (string, error) {
	if d.pos >= len(d.row) {
		return "", &DecodeError{Index: d.pos, Row: d.row, Err: ErrCursorExhausted}
	}
	text := d.row[d.pos]
	d.pos++
	return text, nil
}

// Optional decodes the next field with conv. An empty field is consumed and
// reported as absent without an error; a non-empty field that conv rejects is
// an error wrapping ErrFieldConversion.
func Optional[T any](d *Decoder, conv Converter[T]) (T, bool, error) {
	var zero T
	index := d.pos
	text, err := d.next()
	if err != nil || text == "" {
		return zero, false, err
	}
	v, err := conv(text)
	if err != nil {
		return zero, false, &DecodeError{
			Index: index,
			Row:   d.row,
			Err:   fmt.Errorf("%w: %w", ErrFieldConversion, err),
		}
	}
	return v, true, nil
}

// Required is Optional, failing with ErrMissingValue when the field is empty.
func Required[T any](d *Decoder, conv Converter[T]) (T, error) {
	index := d.pos
	v, ok, err := Optional(d, conv)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, &DecodeError{Index: index, Row: d.row, Err: ErrMissingValue}
	}
	return v, nil
}

// String returns the raw text of the next field, which may be empty.
func (d *Decoder) String() (string, error) {
	return d.next()
}

// OptString returns the next field, reporting an empty field as absent.
func (d *Decoder) OptString() (string, bool, error) {
	text, err := d.next()
	return text, err == nil && text != "", err
}

// Int decodes the next field as an int.
func (d *Decoder) Int() (int, error) {
	return Required(d, ParseInt)
}

// OptInt is Int, reporting an empty field as absent.
func (d *Decoder) OptInt() (int, bool, error) {
	return Optional(d, ParseInt)
}

// Int8 decodes the next field as an int8.
func (d *Decoder) Int8() (int8, error) {
	return Required(d, ParseInt8)
}

// OptInt8 is Int8, reporting an empty field as absent.
func (d *Decoder) OptInt8() (int8, bool, error) {
	return Optional(d, ParseInt8)
}

// Int16 decodes the next field as an int16.
func (d *Decoder) Int16() (int16, error) {
	return Required(d, ParseInt16)
}

// OptInt16 is Int16, reporting an empty field as absent.
func (d *Decoder) OptInt16() (int16, bool, error) {
	return Optional(d, ParseInt16)
}

// Int32 decodes the next field as an int32.
func (d *Decoder) Int32() (int32, error) {
	return Required(d, ParseInt32)
}

// OptInt32 is Int32, reporting an empty field as absent.
func (d *Decoder) OptInt32() (int32, bool, error) {
	return Optional(d, ParseInt32)
}

// Int64 decodes the next field as an int64.
func (d *Decoder) Int64() (int64, error) {
	return Required(d, ParseInt64)
}

// OptInt64 is Int64, reporting an empty field as absent.
func (d *Decoder) OptInt64() (int64, bool, error) {
	return Optional(d, ParseInt64)
}

// Float32 decodes the next field as a float32.
func (d *Decoder) Float32() (float32, error) {
	return Required(d, ParseFloat32)
}

// OptFloat32 is Float32, reporting an empty field as absent.
func (d *Decoder) OptFloat32() (float32, bool, error) {
	return Optional(d, ParseFloat32)
}

// Float64 decodes the next field as a float64.
func (d *Decoder) Float64() (float64, error) {
	return Required(d, ParseFloat64)
}

// OptFloat64 is Float64, reporting an empty field as absent.
func (d *Decoder) OptFloat64() (float64, bool, error) {
	return Optional(d, ParseFloat64)
}

// Bool decodes the next field as a bool as accepted by ParseBool.
func (d *Decoder) Bool() (bool, error) {
	return Required(d, ParseBool)
}

// OptBool is Bool, reporting an empty field as absent.
func (d *Decoder) OptBool() (bool, bool, error) {
	return Optional(d, ParseBool)
}

// Decimal decodes a number that may use ',' as its decimal separator.
func (d *Decoder) Decimal() (decimal.Decimal, error) {
	return Required(d, ParseDecimal)
}

// OptDecimal is Decimal, reporting an empty field as absent.
func (d *Decoder) OptDecimal() (decimal.Decimal, bool, error) {
	return Optional(d, ParseDecimal)
}

// Time decodes the next field with a time.Parse layout, in UTC.
func (d *Decoder) Time(layout string) (time.Time, error) {
	return Required(d, ParseTime(layout))
}

// OptTime is Time, reporting an empty field as absent.
func (d *Decoder) OptTime(layout string) (time.Time, bool, error) {
	return Optional(d, ParseTime(layout))
}

// TimeWith decodes the next field with a reusable layout.
func (d *Decoder) TimeWith(l TimeLayout) (time.Time, error) {
	return Required(d, l.Parse)
}

// OptTimeWith is TimeWith, reporting an empty field as absent.
func (d *Decoder) OptTimeWith(l TimeLayout) (time.Time, bool, error) {
	return Optional(d, l.Parse)
}

// Unmarshaler is implemented by records that decode themselves from a row.
type Unmarshaler interface {
	UnmarshalCSV(d *Decoder) error
}

// Unmarshal decodes row into v.
func Unmarshal(row []string, v Unmarshaler) error {
	return v.UnmarshalCSV(NewDecoder(row))
}
