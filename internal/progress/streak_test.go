package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStreak(t *testing.T) {
	today := "2024-03-13"
	tests := []struct {
		name    string
		history []DayStatus
		want    int
	}{
		{
			name: "empty history",
			want: 0,
		},
		{
			name: "three in a row up to today",
			history: []DayStatus{
				{Date: "2024-03-11", Completed: true},
				{Date: "2024-03-12", Completed: true},
				{Date: "2024-03-13", Completed: true},
			},
			want: 3,
		},
		{
			name: "unfinished today gives zero",
			history: []DayStatus{
				{Date: "2024-03-12", Completed: true},
				{Date: "2024-03-13", Completed: false},
			},
			want: 0,
		},
		{
			name: "missing today gives zero",
			history: []DayStatus{
				{Date: "2024-03-11", Completed: true},
				{Date: "2024-03-12", Completed: true},
			},
			want: 0,
		},
		{
			name: "gap breaks the streak",
			history: []DayStatus{
				{Date: "2024-03-10", Completed: true},
				{Date: "2024-03-12", Completed: true},
				{Date: "2024-03-13", Completed: true},
			},
			want: 2,
		},
		{
			name: "unsorted input, over a month boundary",
			history: []DayStatus{
				{Date: "2024-03-13", Completed: true},
				{Date: "2024-02-29", Completed: true},
				{Date: "2024-03-01", Completed: true},
				{Date: "2024-03-02", Completed: true},
				{Date: "2024-03-03", Completed: true},
				{Date: "2024-03-04", Completed: true},
				{Date: "2024-03-05", Completed: true},
				{Date: "2024-03-06", Completed: true},
				{Date: "2024-03-07", Completed: true},
				{Date: "2024-03-08", Completed: true},
				{Date: "2024-03-09", Completed: true},
				{Date: "2024-03-10", Completed: true},
				{Date: "2024-03-11", Completed: true},
				{Date: "2024-03-12", Completed: true},
			},
			want: 14,
		},
		{
			name: "future days are ignored",
			history: []DayStatus{
				{Date: "2024-03-13", Completed: true},
				{Date: "2024-03-14", Completed: true},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStreak(tt.history, today))
		})
	}
}

func TestOverlay_LastStatusWins(t *testing.T) {
	got := overlay([]DayStatus{
		{Date: "2024-03-12", Completed: true},
		{Date: "2024-03-13", Completed: false},
		{Date: "2024-03-13", Completed: true},
	})
	assert.Equal(t, []DayStatus{
		{Date: "2024-03-12", Completed: true},
		{Date: "2024-03-13", Completed: true},
	}, got)
}
