package activity

import "time"

// QuotaPolicy derives a same-day sending cap from historical daily counts.
// The cap ramps: abrupt day-over-day volume jumps on outreach channels are a
// risk signal in themselves, so growth is limited, not just absolute volume.
type QuotaPolicy struct {
	DailyLimit       int // absolute per-day ceiling; <=0 means unlimited
	MaxDailyIncrease int // allowed growth over the last active day; <=0 means unbounded
	RunLimit         int // per-run ceiling; <=0 means unbounded
}

// DailyCap computes the cap for today from per-day counts (keys as Day()).
// With no prior active day the full daily limit applies (cold start);
// otherwise cap = min(dailyLimit, lastActiveDayCount + maxDailyIncrease).
func (q QuotaPolicy) DailyCap(countsByDay map[string]int, today string) int {
	limit := q.DailyLimit
	if limit <= 0 {
		limit = 1 << 30
	}
	increase := q.MaxDailyIncrease
	if increase <= 0 {
		increase = limit
	}

	lastDay := ""
	for day := range countsByDay {
		if day < today && day > lastDay {
			lastDay = day
		}
	}
	if lastDay == "" {
		return limit
	}
	allowed := countsByDay[lastDay] + increase
	if allowed > limit {
		allowed = limit
	}
	return allowed
}

// RemainingToday is today's cap minus today's count, floored at zero and
// further clamped by the per-run limit.
func (q QuotaPolicy) RemainingToday(countsByDay map[string]int, today string) int {
	remaining := q.DailyCap(countsByDay, today) - countsByDay[today]
	if remaining < 0 {
		remaining = 0
	}
	if q.RunLimit > 0 && remaining > q.RunLimit {
		remaining = q.RunLimit
	}
	return remaining
}

// ContactedWithin reports whether contact had an event more recently than the
// cooldown window. lastByContact comes from LastEventByContact; days <= 0
// disables the cooldown.
func ContactedWithin(lastByContact map[string]time.Time, contact string, days int, now time.Time) bool {
	if days <= 0 {
		return false
	}
	last, ok := lastByContact[NormalizeContact(contact)]
	if !ok {
		return false
	}
	return now.Sub(last) < time.Duration(days)*24*time.Hour
}
