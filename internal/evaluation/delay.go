package evaluation

import (
	"fmt"
	"math"
	"time"

	"aimmkit/pkg/contracts/domain"
)

const day = 24 * time.Hour

// ParseDates parses ISO 8601 strings, reporting the first bad entry
func ParseDates(name string, values []string) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		t, err := domain.ParseISO8601(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d] = %q", ErrInvalidDate, name, i, v)
		}
		out[i] = t
	}
	return out, nil
}

// DetectionDelay pairs every true event with its nearest detection by
// absolute time and reports the delay in whole days, floored, so a detection
// before the event gives a negative delay. On equal distance the earliest
// listed detection wins. With no events or no detections every field is zero.
func DetectionDelay(trueEvents, detections []time.Time) domain.DelayStats {
	stats := domain.DelayStats{Events: len(trueEvents), Detections: len(detections)}
	if len(trueEvents) == 0 || len(detections) == 0 {
		return stats
	}

	var sum int
	minDelay, maxDelay := math.MaxInt, math.MinInt
	for _, event := range trueEvents {
		nearest := detections[0]
		best := absDuration(nearest.Sub(event))
		for _, d := range detections[1:] {
			if dist := absDuration(d.Sub(event)); dist < best {
				nearest, best = d, dist
			}
		}
		delay := floorDays(nearest.Sub(event))
		sum += delay
		minDelay = min(minDelay, delay)
		maxDelay = max(maxDelay, delay)
	}

	n := len(trueEvents)
	stats.MeanDelayDays = float64(sum) / float64(n)
	stats.MaxDelayDays = maxDelay
	stats.MinDelayDays = minDelay
	// every event is paired once detections exist
	stats.DetectionRate = 1
	return stats
}

// DetectionDelayStrings parses both lists and computes DetectionDelay
func DetectionDelayStrings(trueEvents, detections []string) (domain.DelayStats, error) {
	events, err := ParseDates("true_event_dates", trueEvents)
	if err != nil {
		return domain.DelayStats{}, err
	}
	detected, err := ParseDates("detected_dates", detections)
	if err != nil {
		return domain.DelayStats{}, err
	}
	return DetectionDelay(events, detected), nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func floorDays(d time.Duration) int {
	days := d / day
	if d%day < 0 {
		days--
	}
	return int(days)
}
