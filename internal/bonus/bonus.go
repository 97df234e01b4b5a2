package bonus

import (
	"time"

	"lobby/internal/rng"
)

// Indexed by time.Weekday, so Sunday comes first.
var dailyRewards = [7]int64{900, 300, 400, 500, 600, 700, 800}

func DailyRewards() [7]int64 {
	return dailyRewards
}

func Reward(day time.Weekday) int64 {
	return dailyRewards[day]
}

func WeekStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	back := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
}

func CurrentDay(now time.Time, loc *time.Location) time.Weekday {
	return now.In(loc).Weekday()
}

func CheckInDescription(day time.Weekday) string {
	return "Daily check-in reward (" + day.String() + ")"
}

var wheelPrizes = [...]int64{250, 300, 350, 400, 450, 500, 550, 600, 650, 700}

func WheelPrizes() []int64 {
	out := make([]int64, len(wheelPrizes))
	copy(out, wheelPrizes[:])
	return out
}

func DrawPrize(r rng.Source) int64 {
	return wheelPrizes[r.IntN(len(wheelPrizes))]
}

type WheelState struct {
	CanSpin           bool
	TimeUntilNextSpin time.Duration
	LastSpinAt        *time.Time
}

func Wheel(last *time.Time, now time.Time, cooldown time.Duration) WheelState {
	if last == nil {
		return WheelState{CanSpin: true}
	}
	elapsed := now.Sub(*last)
	if elapsed >= cooldown {
		return WheelState{CanSpin: true, LastSpinAt: last}
	}
	return WheelState{TimeUntilNextSpin: cooldown - elapsed, LastSpinAt: last}
}
