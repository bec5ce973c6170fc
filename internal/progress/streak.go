package progress

import (
	"github.com/2beens/fittrack/pkg"
)

// DayStatus is the completion of one tracked day.
type DayStatus struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// ComputeStreak counts consecutive completed days walking back from today.
// The first day that is missing or incomplete ends the streak, today included:
// an unfinished today gives 0.
func ComputeStreak(history []DayStatus, today string) int {
	completed := make(map[string]bool, len(history))
	for _, d := range history {
		if d.Completed {
			completed[d.Date] = true
		}
	}

	streak := 0
	day := today
	for completed[day] {
		streak++
		prev, err := pkg.AddDays(day, -1)
		if err != nil {
			break
		}
		day = prev
	}
	return streak
}
