package rng

import "math/rand/v2"

type Source interface {
	IntN(n int) int
}

type global struct{}

func (global) IntN(n int) int { return rand.IntN(n) }

var Default Source = global{}
