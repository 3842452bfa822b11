package attendance

import (
	"math"
	"sort"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
)

// Break detection bounds, in hours. Gaps shorter than 5 minutes are
// treated as double punches; gaps of 5 hours or more as missing punches.
const (
	minBreakGapHours = 0.08
	maxBreakGapHours = 5.0
)

// candidateBreak is one OUT→IN gap with its lunch and duration scores.
type candidateBreak struct {
	start        time.Time
	end          time.Time
	duration     float64
	isLunchTime  bool
	isFullyLunch bool
	totalScore   int
}

// EstimateBreaks infers the day's break time from the punch sequence.
// Every OUT→IN gap between 5 minutes and 5 hours counts toward the
// total; the primary break window reported back is the gap that looks
// most like lunch. The total is floored at 1.0 hour, and with fewer
// than three punches it defaults to (1.0, nil, nil).
func EstimateBreaks(events []attendance.PunchEvent) (float64, *time.Time, *time.Time) {
	if len(events) < 3 {
		return 1.0, nil, nil
	}

	sorted := make([]attendance.PunchEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var total float64
	var candidates []candidateBreak

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if !prev.IsOut() || !cur.IsIn() {
			continue
		}

		gap := cur.Timestamp.Sub(prev.Timestamp).Hours()
		if gap <= minBreakGapHours || gap >= maxBreakGapHours {
			continue
		}

		total += gap
		candidates = append(candidates, scoreBreak(prev.Timestamp, cur.Timestamp, gap))
	}

	if total < 0.1 || len(candidates) == 0 {
		if total < 1.0 {
			total = 1.0
		}
		return total, nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].totalScore != candidates[j].totalScore {
			return candidates[i].totalScore > candidates[j].totalScore
		}
		return candidates[i].duration > candidates[j].duration
	})

	primary := candidates[0]
	total = math.Round(total*100) / 100
	if total < 1.0 {
		total = 1.0
	}
	return total, &primary.start, &primary.end
}

// scoreBreak rates a gap: up to 3 points for falling in the 11:00-14:59
// lunch band and up to 3 for being close to one hour long.
func scoreBreak(start, end time.Time, duration float64) candidateBreak {
	inLunch := func(t time.Time) bool {
		return t.Hour() >= 11 && t.Hour() <= 14
	}
	isLunchTime := inLunch(start) || inLunch(end)
	isFullyLunch := inLunch(start) && inLunch(end)

	lunchScore := 0
	if isFullyLunch {
		lunchScore = 3
	} else if isLunchTime {
		lunchScore = 1
	}

	durationScore := 0
	switch diff := math.Abs(duration - 1.0); {
	case diff < 0.1:
		durationScore = 3
	case diff < 0.25:
		durationScore = 2
	case diff < 0.5:
		durationScore = 1
	}

	return candidateBreak{
		start:        start,
		end:          end,
		duration:     duration,
		isLunchTime:  isLunchTime,
		isFullyLunch: isFullyLunch,
		totalScore:   lunchScore + durationScore,
	}
}
