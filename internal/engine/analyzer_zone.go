package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rewired-gh/lottoracle/internal/models"
)

const numZones = 9

// zoneOf maps a number to its ten-wide zone index (0..8).
func zoneOf(n int) int {
	z := (n - 1) / 10
	if z >= numZones {
		z = numZones - 1
	}
	return z
}

// ZoneAnalyzer tracks how draws distribute across the nine ten-wide zones.
type ZoneAnalyzer struct {
	Counts       [numZones]int
	RecentCounts [numZones]int
	DueScores    [numZones]float64
	HotZones     []int
	ColdZones    []int
	TopCombos    []string
}

// NewZoneAnalyzer profiles the zone distribution of the history.
func NewZoneAnalyzer(h *models.DrawHistory) *ZoneAnalyzer {
	a := &ZoneAnalyzer{}
	for t := 0; t < h.Len(); t++ {
		for _, n := range h.Winning(t) {
			a.Counts[zoneOf(n)]++
		}
	}

	recent := h.Recent(20)
	for _, d := range recent {
		for _, n := range d {
			a.RecentCounts[zoneOf(n)]++
		}
	}

	// Expected per-zone mass if recent draws spread evenly.
	expected := float64(len(recent)*models.DrawSize) / numZones
	for z := 0; z < numZones; z++ {
		due := (expected - float64(a.RecentCounts[z])) / (expected + 1)
		if due < 0 {
			due = 0
		}
		a.DueScores[z] = due
	}

	zones := make([]int, numZones)
	for z := range zones {
		zones[z] = z
	}
	sort.SliceStable(zones, func(i, j int) bool {
		return a.RecentCounts[zones[i]] > a.RecentCounts[zones[j]]
	})
	a.HotZones = append([]int(nil), zones[:3]...)
	a.ColdZones = append([]int(nil), zones[numZones-3:]...)

	comboCounts := make(map[string]int)
	for _, d := range recent {
		seen := make(map[int]bool, models.DrawSize)
		var combo []int
		for _, n := range d {
			z := zoneOf(n)
			if !seen[z] {
				seen[z] = true
				combo = append(combo, z)
			}
		}
		sort.Ints(combo)
		parts := make([]string, len(combo))
		for i, z := range combo {
			parts[i] = strconv.Itoa(z)
		}
		comboCounts[strings.Join(parts, "-")]++
	}
	combos := make([]string, 0, len(comboCounts))
	for c := range comboCounts {
		combos = append(combos, c)
	}
	sort.SliceStable(combos, func(i, j int) bool {
		if comboCounts[combos[i]] != comboCounts[combos[j]] {
			return comboCounts[combos[i]] > comboCounts[combos[j]]
		}
		return combos[i] < combos[j]
	})
	if len(combos) > 5 {
		combos = combos[:5]
	}
	a.TopCombos = combos
	return a
}

// ZoneDiversity returns the fraction of distinct zones a ticket covers.
func ZoneDiversity(d models.Draw) float64 {
	seen := make(map[int]bool, models.DrawSize)
	for _, n := range d {
		seen[zoneOf(n)] = true
	}
	return float64(len(seen)) / models.DrawSize
}
