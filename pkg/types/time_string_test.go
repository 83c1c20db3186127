package types

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{name: "morning", input: "08:00", want: 480},
		{name: "half hour", input: "19:30", want: 1170},
		{name: "end of day", input: "24:00", want: 1440},
		{name: "midnight", input: "00:00", want: 0},
		{name: "single digit hour", input: "9:00", wantErr: ErrInvalidTimeString},
		{name: "letters", input: "ab:cd", wantErr: ErrInvalidTimeString},
		{name: "minutes overflow", input: "10:60", wantErr: ErrTimeOutOfRange},
		{name: "past end of day", input: "24:30", wantErr: ErrTimeOutOfRange},
		{name: "empty", input: "", wantErr: ErrInvalidTimeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Minutes())
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := TimeString("22:30")

	end, err := start.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), end)

	_, err = start.AddMinutes(91)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	a := TimeString("10:00")
	b := TimeString("10:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsBefore(a))
	assert.True(t, a.Equal("10:00"))
}

func TestTimeString_OnDate(t *testing.T) {
	loc := time.FixedZone("UYT", -3*60*60)
	date := time.Date(2025, 1, 10, 15, 45, 0, 0, loc)

	got := TimeString("18:30").OnDate(date)

	assert.Equal(t, time.Date(2025, 1, 10, 18, 30, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("07:15")))
	assert.Equal(t, TimeString("07:15"), ts)

	assert.Error(t, ts.Scan("7:15"))
	assert.Error(t, ts.Scan(42))
}

func TestTimeString_OnDate_DaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09: часы переводятся вперёд в 02:00
	spring := time.Date(2025, 3, 9, 0, 0, 0, 0, ny)
	got := TimeString("03:00").OnDate(spring)
	assert.Equal(t, 3, got.Hour())
	assert.Equal(t, 0, got.Minute())

	// 2025-11-02: час 01:00-02:00 повторяется
	autumn := time.Date(2025, 11, 2, 0, 0, 0, 0, ny)
	got = TimeString("12:00").OnDate(autumn)
	assert.Equal(t, 12, got.Hour())
	assert.Equal(t, 2, got.Day())

	got = TimeString("24:00").OnDate(autumn)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, ny), got)
}
