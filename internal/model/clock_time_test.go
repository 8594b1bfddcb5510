package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"06:05", "06:05"},
		{"6:05", "06:05"},
		{" 13:00 ", "13:00"},
		{"23:59", "23:59"},
		{"--:--", UnsetClock},
		{"", UnsetClock},
		{"24:00", UnsetClock},
		{"12:60", UnsetClock},
		{"1300", UnsetClock},
		{"+1:30", UnsetClock},
		{"13:+0", UnsetClock},
		{"1:-0", UnsetClock},
		{"-1:30", UnsetClock},
		{"1a:30", UnsetClock},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseClockTime(tt.in)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.want != UnsetClock, got.IsSet())
		})
	}
}
