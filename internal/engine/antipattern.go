package engine

import (
	"sort"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// antiPattern names one rejected ticket shape and tests for it.
type antiPattern struct {
	name  string
	match func(d models.Draw) bool
}

func allMatch(d models.Draw, pred func(int) bool) bool {
	for _, n := range d {
		if !pred(n) {
			return false
		}
	}
	return true
}

var antiPatterns = []antiPattern{
	{"all_even", func(d models.Draw) bool { return allMatch(d, func(n int) bool { return n%2 == 0 }) }},
	{"all_odd", func(d models.Draw) bool { return allMatch(d, func(n int) bool { return n%2 == 1 }) }},
	{"all_high", func(d models.Draw) bool { return allMatch(d, func(n int) bool { return n > models.HighThreshold }) }},
	{"all_low", func(d models.Draw) bool { return allMatch(d, func(n int) bool { return n <= models.HighThreshold }) }},
	{"same_zone", func(d models.Draw) bool {
		z := zoneOf(d[0])
		return allMatch(d, func(n int) bool { return zoneOf(n) == z })
	}},
	{"consecutive_run", func(d models.Draw) bool {
		for i := 1; i < models.DrawSize; i++ {
			if d[i]-d[i-1] != 1 {
				return false
			}
		}
		return true
	}},
	{"sum_too_low", func(d models.Draw) bool { return d.Sum() < 100 }},
	{"sum_too_high", func(d models.Draw) bool { return d.Sum() > 350 }},
	{"all_multiples_of_5", func(d models.Draw) bool { return allMatch(d, func(n int) bool { return n%5 == 0 }) }},
	{"all_multiples_of_10", func(d models.Draw) bool { return allMatch(d, func(n int) bool { return n%10 == 0 }) }},
}

// CheckAntiPatterns returns the names of every rejected shape a ticket matches.
func CheckAntiPatterns(d models.Draw) []string {
	var out []string
	for _, p := range antiPatterns {
		if p.match(d) {
			out = append(out, p.name)
		}
	}
	return out
}

// PatternValidity scores a ticket by how many anti-patterns it violates.
func PatternValidity(d models.Draw) float64 {
	v := 1 - 0.15*float64(len(CheckAntiPatterns(d)))
	if v < 0 {
		return 0
	}
	return v
}

// repairTarget picks which member to replace for a given violation: the
// smallest number when the sum is too low, the largest when too high, the
// first member otherwise.
func repairTarget(d models.Draw, name string) int {
	switch name {
	case "sum_too_low":
		return 0
	case "sum_too_high":
		return models.DrawSize - 1
	default:
		return 0
	}
}

// RepairAntiPatterns substitutes offending numbers with compliant candidates
// from the pool until the ticket is clean or the pass cap runs out. The
// replacement is always the median-ranked candidate that clears the violation,
// so repair is deterministic. A nil pool defaults to the full 1..90 range.
func RepairAntiPatterns(d models.Draw, pool []int) models.Draw {
	if len(pool) == 0 {
		pool = make([]int, models.MaxNumber)
		for i := range pool {
			pool[i] = i + 1
		}
	}

	current := d
	for pass := 0; pass < 10; pass++ {
		violations := CheckAntiPatterns(current)
		if len(violations) == 0 {
			break
		}
		name := violations[0]
		idx := repairTarget(current, name)

		var matcher func(models.Draw) bool
		for _, p := range antiPatterns {
			if p.name == name {
				matcher = p.match
				break
			}
		}

		var compliant []int
		for _, c := range pool {
			if current.Contains(c) {
				continue
			}
			trial := current
			trial[idx] = c
			sort.Ints(trial[:])
			if !matcher(trial) {
				compliant = append(compliant, c)
			}
		}
		if len(compliant) == 0 {
			break
		}
		current[idx] = compliant[len(compliant)/2]
		sort.Ints(current[:])
	}
	return current
}
