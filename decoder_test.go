package utf8csv

import (
	"net/netip"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func requireDecodeError(t *testing.T, err error, target error, index int) {
	t.Helper()
	require.ErrorIs(t, err, target)
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, index, derr.Index)
}

func TestDecoderTypedFields(t *testing.T) {
	t.Parallel()

	row := []string{"42", "-8", "300", "-70000", "9000000000", "1.5", "2.25", "true", "12,5", "2024-03-01", "text"}
	d := NewDecoder(row)

	i, err := d.Int()
	require.NoError(t, err)
	require.Equal(t, 42, i)

	i8, err := d.Int8()
	require.NoError(t, err)
	require.Equal(t, int8(-8), i8)

	i16, err := d.Int16()
	require.NoError(t, err)
	require.Equal(t, int16(300), i16)

	i32, err := d.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(-70000), i32)

	i64, err := d.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(9000000000), i64)

	f32, err := d.Float32()
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)

	f64, err := d.Float64()
	require.NoError(t, err)
	require.Equal(t, 2.25, f64)

	b, err := d.Bool()
	require.NoError(t, err)
	require.True(t, b)

	dec, err := d.Decimal()
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("12.5").Equal(dec), "got %s", dec)

	ts, err := d.Time("2006-01-02")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ts)

	s, err := d.String()
	require.NoError(t, err)
	require.Equal(t, "text", s)

	require.Zero(t, d.Remaining())
	_, err = d.String()
	requireDecodeError(t, err, ErrCursorExhausted, len(row))
}

func TestDecoderOptionalAndRequired(t *testing.T) {
	t.Parallel()

	t.Run("emptyOptionalIsAbsent", func(t *testing.T) {
		t.Parallel()

		d := NewDecoder([]string{"", "", "", "", "7"})
		v, ok, err := d.OptInt()
		require.NoError(t, err)
		require.False(t, ok)
		require.Zero(t, v)

		_, ok, err = d.OptDecimal()
		require.NoError(t, err)
		require.False(t, ok)

		_, ok, err = d.OptTime(time.RFC3339)
		require.NoError(t, err)
		require.False(t, ok)

		_, ok, err = d.OptString()
		require.NoError(t, err)
		require.False(t, ok)

		v, ok, err = d.OptInt()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 7, v)
	})

	t.Run("emptyRequiredFails", func(t *testing.T) {
		t.Parallel()

		d := NewDecoder([]string{"1", ""})
		_, err := d.Float64()
		require.NoError(t, err)
		_, err = d.Float64()
		requireDecodeError(t, err, ErrMissingValue, 1)
	})

	t.Run("requiredStringAcceptsEmpty", func(t *testing.T) {
		t.Parallel()

		s, err := NewDecoder([]string{""}).String()
		require.NoError(t, err)
		require.Empty(t, s)
	})

	t.Run("conversionFailureIgnoresOptionality", func(t *testing.T) {
		t.Parallel()

		d := NewDecoder([]string{"abc", "abc", "maybe", "1,2,3", "128"})
		_, _, err := d.OptInt()
		requireDecodeError(t, err, ErrFieldConversion, 0)
		_, err = d.Int()
		requireDecodeError(t, err, ErrFieldConversion, 1)
		_, _, err = d.OptBool()
		requireDecodeError(t, err, ErrFieldConversion, 2)
		_, _, err = d.OptDecimal()
		requireDecodeError(t, err, ErrFieldConversion, 3)
		_, err = d.Int8()
		requireDecodeError(t, err, ErrFieldConversion, 4)
		require.ErrorIs(t, err, strconv.ErrRange)
	})

	t.Run("optionalPastEnd", func(t *testing.T) {
		t.Parallel()

		_, ok, err := NewDecoder(nil).OptFloat32()
		require.False(t, ok)
		requireDecodeError(t, err, ErrCursorExhausted, 0)
	})
}

func TestDecoderDecimalLocales(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{text: "12,5", want: "12.5", ok: true},
		{text: "12.5", want: "12.5", ok: true},
		{text: "-0,001", want: "-0.001", ok: true},
		{text: "100", want: "100", ok: true},
		{text: "NaN"},
		{text: "1.234,5"},
		{text: "twelve"},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			t.Parallel()

			v, err := ParseDecimal(tc.text)
			if !tc.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, decimal.RequireFromString(tc.want).Equal(v), "got %s", v)
		})
	}
}

func TestDecoderTimeLayout(t *testing.T) {
	t.Parallel()

	kyiv := time.FixedZone("EET", 2*60*60)
	layout := TimeLayout{Layout: "02.01.2006 15:04", Location: kyiv}
	d := NewDecoder([]string{"05.09.2016 10:30", "", "31.02.2016 10:30"})

	ts, err := d.TimeWith(layout)
	require.NoError(t, err)
	require.Equal(t, time.Date(2016, 9, 5, 8, 30, 0, 0, time.UTC), ts.UTC())

	_, ok, err := d.OptTimeWith(layout)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = d.TimeWith(layout)
	requireDecodeError(t, err, ErrFieldConversion, 2)
}

func TestDecoderBool(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"1", "t", "T", "TRUE", "true", "True"} {
		v, err := ParseBool(text)
		require.NoError(t, err, text)
		require.True(t, v, text)
	}
	for _, text := range []string{"0", "f", "F", "FALSE", "false", "False"} {
		v, err := ParseBool(text)
		require.NoError(t, err, text)
		require.False(t, v, text)
	}

	d := NewDecoder([]string{"yes", "Y", "Y"})
	_, err := d.Bool()
	requireDecodeError(t, err, ErrFieldConversion, 0)
	_, _, err = d.OptBool()
	requireDecodeError(t, err, ErrFieldConversion, 1)

	lenient := FromString(func(text string) (bool, bool) {
		switch text {
		case "Y", "y", "yes":
			return true, true
		case "N", "n", "no":
			return false, true
		}
		return false, false
	})
	v, err := Required(d, lenient)
	require.NoError(t, err)
	require.True(t, v)
}

type weekday int

func weekdayFromString(s string) (weekday, bool) {
	for i, name := range []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"} {
		if s == name {
			return weekday(i), true
		}
	}
	return 0, false
}

func weekdayFromInt(i int) (weekday, bool) {
	if i < 0 || i > 6 {
		return 0, false
	}
	return weekday(i), true
}

func TestDecoderCustomConversions(t *testing.T) {
	t.Parallel()

	d := NewDecoder([]string{"wed", "funday", "6", "9", "", "10.0.0.1", "not-an-ip"})

	day, err := Required(d, FromString(weekdayFromString))
	require.NoError(t, err)
	require.Equal(t, weekday(2), day)

	_, err = Required(d, FromString(weekdayFromString))
	requireDecodeError(t, err, ErrFieldConversion, 1)

	day, ok, err := Optional(d, FromInt(weekdayFromInt))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, weekday(6), day)

	_, _, err = Optional(d, FromInt(weekdayFromInt))
	requireDecodeError(t, err, ErrFieldConversion, 3)

	_, err = Required(d, FromInt(weekdayFromInt))
	requireDecodeError(t, err, ErrMissingValue, 4)

	addr, err := Required(d, Text[netip.Addr])
	require.NoError(t, err)
	require.Equal(t, netip.MustParseAddr("10.0.0.1"), addr)

	_, _, err = Optional(d, Text[netip.Addr])
	requireDecodeError(t, err, ErrFieldConversion, 6)
}

func TestDecoderReset(t *testing.T) {
	t.Parallel()

	d := NewDecoder([]string{"a"})
	_, err := d.String()
	require.NoError(t, err)
	require.Zero(t, d.Remaining())

	d.Reset([]string{"1", "2"})
	require.Equal(t, []string{"1", "2"}, d.Row())
	require.Equal(t, 2, d.Remaining())
	v, err := d.Int()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

type account struct {
	ID      int
	Owner   string
	Balance decimal.Decimal
	Active  bool
	Limit   *float64
}

func (a *account) UnmarshalCSV(d *Decoder) error {
	var err error
	if a.ID, err = d.Int(); err != nil {
		return err
	}
	if a.Owner, err = d.String(); err != nil {
		return err
	}
	if a.Balance, err = d.Decimal(); err != nil {
		return err
	}
	if a.Active, err = d.Bool(); err != nil {
		return err
	}
	limit, ok, err := d.OptFloat64()
	if ok {
		a.Limit = &limit
	}
	return err
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	var a account
	require.NoError(t, Unmarshal([]string{"7", "Олена", "1050,75", "1", ""}, &a))
	require.Equal(t, 7, a.ID)
	require.Equal(t, "Олена", a.Owner)
	require.Equal(t, "1050.75", a.Balance.String())
	require.True(t, a.Active)
	require.Nil(t, a.Limit)

	err := Unmarshal([]string{"8", "short"}, &a)
	requireDecodeError(t, err, ErrCursorExhausted, 2)
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, []string{"8", "short"}, derr.Row)
	require.Contains(t, err.Error(), `["8" "short"]`)
}
