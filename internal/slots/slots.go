package slots

import (
	"math"

	"lobby/internal/rng"
)

type Symbol string

const (
	Seven   Symbol = "7️⃣"
	Diamond Symbol = "💎"
	Star    Symbol = "⭐"
	Bell    Symbol = "🔔"
	Grape   Symbol = "🍇"
	Lemon   Symbol = "🍋"
	Cherry  Symbol = "🍒"
)

var Symbols = [...]Symbol{Seven, Diamond, Star, Bell, Grape, Lemon, Cherry}

var tripleMultipliers = map[Symbol]int64{
	Seven:   100,
	Diamond: 50,
	Star:    25,
	Bell:    15,
	Grape:   10,
	Lemon:   8,
	Cherry:  5,
}

const PairMultiplier int64 = 2

// MaxSafeBet keeps bet times the best multiplier inside int64.
const MaxSafeBet = math.MaxInt64 / 100

type Reels [3]Symbol

func Draw(r rng.Source) Reels {
	var reels Reels
	for i := range reels {
		reels[i] = Symbols[r.IntN(len(Symbols))]
	}
	return reels
}

func Multiplier(reels Reels) int64 {
	a, b, c := reels[0], reels[1], reels[2]
	if a == b && b == c {
		return tripleMultipliers[a]
	}
	if a == b || b == c || a == c {
		return PairMultiplier
	}
	return 0
}

type Outcome struct {
	Reels      Reels
	Multiplier int64
	Win        int64
}

func Spin(r rng.Source, bet int64) Outcome {
	reels := Draw(r)
	mult := Multiplier(reels)
	return Outcome{Reels: reels, Multiplier: mult, Win: bet * mult}
}

func Paytable() []PaytableEntry {
	entries := make([]PaytableEntry, 0, len(Symbols))
	for _, s := range Symbols {
		entries = append(entries, PaytableEntry{Symbol: s, Multiplier: tripleMultipliers[s]})
	}
	return entries
}

type PaytableEntry struct {
	Symbol     Symbol `json:"symbol"`
	Multiplier int64  `json:"multiplier"`
}
