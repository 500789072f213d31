package models

import (
	"testing"
)

func TestNewDraw(t *testing.T) {
	tests := []struct {
		name    string
		nums    []int
		wantErr bool
	}{
		{
			name: "valid draw",
			nums: []int{5, 1, 90, 33, 17},
		},
		{
			name:    "too few numbers",
			nums:    []int{1, 2, 3, 4},
			wantErr: true,
		},
		{
			name:    "too many numbers",
			nums:    []int{1, 2, 3, 4, 5, 6},
			wantErr: true,
		},
		{
			name:    "out of range high",
			nums:    []int{1, 2, 3, 4, 91},
			wantErr: true,
		},
		{
			name:    "out of range low",
			nums:    []int{0, 2, 3, 4, 5},
			wantErr: true,
		},
		{
			name:    "duplicate number",
			nums:    []int{1, 2, 3, 4, 4},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDraw(tt.nums)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDraw() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				for i := 1; i < DrawSize; i++ {
					if d[i] <= d[i-1] {
						t.Errorf("NewDraw() not sorted ascending: %v", d)
					}
				}
			}
		})
	}
}

func TestDrawDerivedProperties(t *testing.T) {
	d, err := NewDraw([]int{2, 10, 46, 47, 88})
	if err != nil {
		t.Fatalf("NewDraw failed: %v", err)
	}

	if got := d.Sum(); got != 193 {
		t.Errorf("Sum() = %d, want 193", got)
	}
	if got := d.EvenCount(); got != 4 {
		t.Errorf("EvenCount() = %d, want 4", got)
	}
	if got := d.HighCount(); got != 3 {
		t.Errorf("HighCount() = %d, want 3", got)
	}
	if got := d.MaxGap(); got != 41 {
		t.Errorf("MaxGap() = %d, want 41", got)
	}
	if got := d.Rank(46); got != 2 {
		t.Errorf("Rank(46) = %d, want 2", got)
	}
	if got := d.Rank(3); got != -1 {
		t.Errorf("Rank(3) = %d, want -1", got)
	}
}

func TestNewHistoryAlignment(t *testing.T) {
	draw := func(base int) []int {
		return []int{base, base + 1, base + 2, base + 3, base + 4}
	}

	winning := make([][]int, 50)
	for i := range winning {
		winning[i] = draw(1 + i%80)
	}

	machineShort := make([][]int, 48)
	for i := range machineShort {
		machineShort[i] = draw(1 + i%80)
	}

	if _, err := NewHistory(winning, machineShort); err == nil {
		t.Error("NewHistory accepted 48 machine draws against 50 winning draws")
	}

	machineFull := make([][]int, 50)
	for i := range machineFull {
		machineFull[i] = draw(1 + i%80)
	}
	h, err := NewHistory(winning, machineFull)
	if err != nil {
		t.Fatalf("NewHistory failed on aligned input: %v", err)
	}
	if !h.HasMachine() {
		t.Error("HasMachine() = false for aligned history")
	}
	if h.WithoutMachine().HasMachine() {
		t.Error("WithoutMachine() still reports machine draws")
	}
}

func TestScoreTableNormalizeAndTop(t *testing.T) {
	var table ScoreTable
	table[7] = 3
	table[20] = 1
	table[55] = 1

	table.Normalize()
	if sum := table.Sum(); sum < 0.999999 || sum > 1.000001 {
		t.Errorf("Sum() after Normalize = %f, want 1", sum)
	}

	top := table.Top(3)
	if top[0] != 7 {
		t.Errorf("Top(3)[0] = %d, want 7", top[0])
	}
	// 20 and 55 tie; the smaller number ranks first.
	if top[1] != 20 || top[2] != 55 {
		t.Errorf("Top(3)[1:] = %v, want [20 55]", top[1:])
	}

	var zero ScoreTable
	zero.Normalize()
	if zero.Sum() != 0 {
		t.Error("Normalize() modified an all-zero table")
	}
}

func TestUniform(t *testing.T) {
	u := Uniform()
	if sum := u.Sum(); sum < 0.999999 || sum > 1.000001 {
		t.Errorf("Uniform().Sum() = %f, want 1", sum)
	}
}
