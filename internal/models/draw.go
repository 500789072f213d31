// Package models defines the core domain entities: draws, histories, tickets, and scores.
package models

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// MaxNumber is the highest ball in the 5/90 format.
	MaxNumber = 90
	// DrawSize is the number of balls per draw.
	DrawSize = 5
	// HighThreshold splits the number range into low (<=45) and high (>45).
	HighThreshold = 45
)

// Draw is one lottery event's numbers, stored sorted ascending.
type Draw [DrawSize]int

// NewDraw validates and normalizes a raw number set into a Draw.
func NewDraw(nums []int) (Draw, error) {
	var d Draw
	if len(nums) != DrawSize {
		return d, fmt.Errorf("draw must contain exactly %d numbers, got %d", DrawSize, len(nums))
	}
	seen := make(map[int]bool, DrawSize)
	for _, n := range nums {
		if n < 1 || n > MaxNumber {
			return d, fmt.Errorf("number %d out of range [1,%d]", n, MaxNumber)
		}
		if seen[n] {
			return d, fmt.Errorf("duplicate number %d", n)
		}
		seen[n] = true
	}
	copy(d[:], nums)
	sort.Ints(d[:])
	return d, nil
}

// Contains reports whether n is a member of the draw.
func (d Draw) Contains(n int) bool {
	for _, m := range d {
		if m == n {
			return true
		}
	}
	return false
}

// Sum returns the total of the five numbers.
func (d Draw) Sum() int {
	s := 0
	for _, n := range d {
		s += n
	}
	return s
}

// EvenCount returns how many members are even.
func (d Draw) EvenCount() int {
	c := 0
	for _, n := range d {
		if n%2 == 0 {
			c++
		}
	}
	return c
}

// HighCount returns how many members exceed HighThreshold.
func (d Draw) HighCount() int {
	c := 0
	for _, n := range d {
		if n > HighThreshold {
			c++
		}
	}
	return c
}

// Gaps returns the four deltas between adjacent sorted members.
func (d Draw) Gaps() [DrawSize - 1]int {
	var g [DrawSize - 1]int
	for i := 1; i < DrawSize; i++ {
		g[i-1] = d[i] - d[i-1]
	}
	return g
}

// MaxGap returns the largest internal delta.
func (d Draw) MaxGap() int {
	max := 0
	for _, g := range d.Gaps() {
		if g > max {
			max = g
		}
	}
	return max
}

// Rank returns the sorted position (0..4) of n within the draw, or -1 if absent.
func (d Draw) Rank(n int) int {
	for i, m := range d {
		if m == n {
			return i
		}
	}
	return -1
}

// DrawHistory is an ordered sequence of draws, oldest first. When machine draws
// are present they are positionally aligned with the winning draws.
type DrawHistory struct {
	winning []Draw
	machine []Draw
}

// NewHistory validates raw winning (and optional machine) draws into a history.
// Machine draws, when supplied, must match the winning draws one-to-one.
func NewHistory(winning [][]int, machine [][]int) (*DrawHistory, error) {
	if len(winning) == 0 {
		return nil, errors.New("history must contain at least one draw")
	}
	if machine != nil && len(machine) != len(winning) {
		return nil, fmt.Errorf("machine draws length %d does not match winning draws length %d",
			len(machine), len(winning))
	}

	h := &DrawHistory{winning: make([]Draw, len(winning))}
	for i, raw := range winning {
		d, err := NewDraw(raw)
		if err != nil {
			return nil, fmt.Errorf("winning draw %d: %w", i, err)
		}
		h.winning[i] = d
	}
	if machine != nil {
		h.machine = make([]Draw, len(machine))
		for i, raw := range machine {
			d, err := NewDraw(raw)
			if err != nil {
				return nil, fmt.Errorf("machine draw %d: %w", i, err)
			}
			h.machine[i] = d
		}
	}
	return h, nil
}

// NewHistoryFromDraws builds a history from already-validated draws.
func NewHistoryFromDraws(winning []Draw, machine []Draw) (*DrawHistory, error) {
	if len(winning) == 0 {
		return nil, errors.New("history must contain at least one draw")
	}
	if machine != nil && len(machine) != len(winning) {
		return nil, fmt.Errorf("machine draws length %d does not match winning draws length %d",
			len(machine), len(winning))
	}
	return &DrawHistory{winning: winning, machine: machine}, nil
}

// Len returns the number of draws in the history.
func (h *DrawHistory) Len() int { return len(h.winning) }

// HasMachine reports whether aligned machine draws are present.
func (h *DrawHistory) HasMachine() bool { return h.machine != nil }

// Winning returns the winning draw at chronological index i.
func (h *DrawHistory) Winning(i int) Draw { return h.winning[i] }

// Machine returns the machine draw at chronological index i.
// Only valid when HasMachine is true.
func (h *DrawHistory) Machine(i int) Draw { return h.machine[i] }

// WinningSlice returns winning draws in [from, to). Bounds are clamped.
func (h *DrawHistory) WinningSlice(from, to int) []Draw {
	if from < 0 {
		from = 0
	}
	if to > len(h.winning) {
		to = len(h.winning)
	}
	if from >= to {
		return nil
	}
	return h.winning[from:to]
}

// Recent returns the last n winning draws (all of them when n >= Len).
func (h *DrawHistory) Recent(n int) []Draw {
	if n >= len(h.winning) {
		return h.winning
	}
	return h.winning[len(h.winning)-n:]
}

// WithoutMachine returns a view of the same winning draws with machine draws dropped.
func (h *DrawHistory) WithoutMachine() *DrawHistory {
	return &DrawHistory{winning: h.winning}
}
