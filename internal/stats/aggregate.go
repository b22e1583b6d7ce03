// Package stats derives read-only report summaries from cards and practice attempts.
package stats

import (
	"fmt"
	"time"

	"github.com/vytor/klar/internal/models"
)

const day = 24 * time.Hour

// Window is a trailing period of Days days. Days == 0 means all time.
type Window struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// AllTime reports whether w covers every attempt.
func (w Window) AllTime() bool {
	return w.Days <= 0
}

// DefaultWindows are the report windows shown by every surface.
var DefaultWindows = []Window{
	{Name: "last_7_days", Days: 7},
	{Name: "last_30_days", Days: 30},
	{Name: "last_365_days", Days: 365},
	{Name: "all_time"},
}

// WindowStat aggregates the attempts that fall into one window.
type WindowStat struct {
	Window             Window  `json:"window"`
	Attempts           int     `json:"attempts"`
	Correct            int     `json:"correct"`
	DurationSeconds    int64   `json:"duration_seconds"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
	SuccessRate        float64 `json:"success_rate"`
}

// LevelStat aggregates attempts by the level the card had when answered.
type LevelStat struct {
	Level       models.Level `json:"level"`
	Attempts    int          `json:"attempts"`
	Correct     int          `json:"correct"`
	SuccessRate float64      `json:"success_rate"`
}

// Summary is the report for one collection of cards and attempts.
type Summary struct {
	GeneratedAt   time.Time    `json:"generated_at"`
	TotalCards    int          `json:"total_cards"`
	CardsPerLevel [4]int       `json:"cards_per_level"`
	Mastered      int          `json:"mastered"`
	InProgress    int          `json:"in_progress"`
	MasteryRate   float64      `json:"mastery_rate"`
	Windows       []WindowStat `json:"windows"`
	LevelStats    []LevelStat  `json:"level_stats"`
}

// Window looks up a window by name.
func (s Summary) Window(name string) (WindowStat, bool) {
	for _, w := range s.Windows {
		if w.Window.Name == name {
			return w, true
		}
	}
	return WindowStat{}, false
}

// Aggregate computes a Summary. Cards with a level outside 1..4 are counted
// in TotalCards only. Neither slice is modified.
func Aggregate(cards []models.Card, attempts []models.PracticeAttempt, windows []Window, now time.Time) Summary {
	sum := Summary{
		GeneratedAt: now,
		TotalCards:  len(cards),
		Windows:     make([]WindowStat, len(windows)),
		LevelStats:  make([]LevelStat, len(models.Levels)),
	}

	for _, c := range cards {
		if c.Level.Valid() {
			sum.CardsPerLevel[c.Level-1]++
		}
	}
	sum.Mastered = sum.CardsPerLevel[models.LevelMastered-1]
	sum.InProgress = sum.TotalCards - sum.Mastered
	sum.MasteryRate = rate(sum.Mastered, sum.TotalCards)

	cutoffs := make([]time.Time, len(windows))
	for i, w := range windows {
		sum.Windows[i].Window = w
		if !w.AllTime() {
			cutoffs[i] = now.Add(-time.Duration(w.Days) * day)
		}
	}
	for i, level := range models.Levels {
		sum.LevelStats[i].Level = level
	}

	for _, a := range attempts {
		for i, w := range windows {
			if !w.AllTime() && a.PracticedAt.Before(cutoffs[i]) {
				continue
			}
			ws := &sum.Windows[i]
			ws.Attempts++
			ws.DurationSeconds += int64(a.DurationSeconds)
			if a.Correct {
				ws.Correct++
			}
		}
		if a.Level.Valid() {
			ls := &sum.LevelStats[a.Level-1]
			ls.Attempts++
			if a.Correct {
				ls.Correct++
			}
		}
	}

	for i := range sum.Windows {
		ws := &sum.Windows[i]
		ws.SuccessRate = rate(ws.Correct, ws.Attempts)
		if ws.Attempts > 0 {
			ws.AvgDurationSeconds = float64(ws.DurationSeconds) / float64(ws.Attempts)
		}
	}
	for i := range sum.LevelStats {
		ls := &sum.LevelStats[i]
		ls.SuccessRate = rate(ls.Correct, ls.Attempts)
	}
	return sum
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// FormatDuration renders seconds as HH:MM:SS. Hours do not wrap.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
