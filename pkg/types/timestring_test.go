package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "09:00", want: "09:00"},
		{input: "23:59", want: "23:59"},
		{input: "00:00", want: "00:00"},
		{input: "9:00", wantErr: true},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "12-30", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2026, 3, 16, 9, 5, 30, 0, time.UTC))
	assert.Equal(t, "09:05", ts.String())
}

func TestTimeString_Minutes(t *testing.T) {
	minutes, err := TimeString("10:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)

	_, err = TimeString("bogus").Minutes()
	assert.Error(t, err)
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(630)
	require.NoError(t, err)
	assert.Equal(t, "10:30", ts.String())

	_, err = NewTimeStringFromMinutes(24 * 60)
	assert.Error(t, err)

	_, err = NewTimeStringFromMinutes(-1)
	assert.Error(t, err)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("10:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, "11:15", ts.String())

	// Выход за пределы суток - ошибка
	_, err = TimeString("23:45").AddMinutes(30)
	assert.Error(t, err)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:30").IsAfter("10:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, "10:30", ts.String())

	require.NoError(t, ts.Scan([]byte("11:00")))
	assert.Equal(t, "11:00", ts.String())

	require.NoError(t, ts.Scan(time.Date(2026, 3, 16, 14, 45, 0, 0, time.UTC)))
	assert.Equal(t, "14:45", ts.String())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:30", v)

	_, err = TimeString("bogus").Value()
	assert.Error(t, err)
}
