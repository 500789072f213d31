package storage

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/lottoracle/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(100, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testDraw(t *testing.T, nums []int) models.Draw {
	t.Helper()
	d, err := models.NewDraw(nums)
	if err != nil {
		t.Fatalf("invalid test draw %v: %v", nums, err)
	}
	return d
}

func TestStorage_AddDrawAndLoadHistory(t *testing.T) {
	s := newTestStorage(t)

	draws := [][]int{
		{3, 17, 42, 58, 79},
		{5, 22, 31, 60, 88},
		{9, 14, 27, 45, 71},
	}
	for _, nums := range draws {
		if err := s.AddDraw(testDraw(t, nums), nil); err != nil {
			t.Fatalf("AddDraw: %v", err)
		}
	}

	h, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if h.Len() != 3 {
		t.Fatalf("got %d draws, want 3", h.Len())
	}
	// Oldest first.
	if h.Winning(0) != testDraw(t, draws[0]) {
		t.Errorf("first draw: got %v, want %v", h.Winning(0), draws[0])
	}
	if h.HasMachine() {
		t.Error("history should not carry machine draws")
	}
}

func TestStorage_MachineDrawsAllOrNothing(t *testing.T) {
	s := newTestStorage(t)

	m := testDraw(t, []int{2, 19, 33, 50, 66})
	if err := s.AddDraw(testDraw(t, []int{3, 17, 42, 58, 79}), &m); err != nil {
		t.Fatalf("AddDraw with machine: %v", err)
	}
	// Second draw without a machine row breaks alignment for the whole set.
	if err := s.AddDraw(testDraw(t, []int{5, 22, 31, 60, 88}), nil); err != nil {
		t.Fatalf("AddDraw without machine: %v", err)
	}

	h, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if h.Len() != 2 {
		t.Fatalf("got %d draws, want 2", h.Len())
	}
	if h.HasMachine() {
		t.Error("partial machine coverage should load as winning-only history")
	}
}

func TestStorage_LoadHistoryEmpty(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.LoadHistory(); err == nil {
		t.Error("expected error loading an empty history")
	}
}

func TestStorage_ImportCSV(t *testing.T) {
	s := newTestStorage(t)

	csvData := "3,17,42,58,79\n5,22,31,60,88,2,19,33,50,66\n"
	n, err := s.ImportCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d rows, want 2", n)
	}

	count, err := s.CountDraws()
	if err != nil {
		t.Fatalf("CountDraws: %v", err)
	}
	if count != 2 {
		t.Errorf("CountDraws = %d, want 2", count)
	}
}

func TestStorage_ImportCSV_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong field count", "1,2,3\n"},
		{"non-numeric", "1,2,3,4,x\n"},
		{"duplicate numbers", "7,7,10,20,30\n"},
		{"out of range", "0,10,20,30,40\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStorage(t)
			if _, err := s.ImportCSV(strings.NewReader(tt.data)); err == nil {
				t.Errorf("ImportCSV accepted %q", tt.data)
			}
		})
	}
}

func testPrediction(strategy string, at time.Time) *models.Prediction {
	return &models.Prediction{
		Strategy: strategy,
		Tickets: map[string][]models.Ticket{
			strategy: {{Numbers: models.Draw{4, 18, 36, 54, 72}, Score: 1.5}},
		},
		Confidence: map[string]models.Confidence{
			strategy: {Confidence: 0.62, Level: "medium"},
		},
		GeneratedAt: at,
	}
}

func TestStorage_RecordPrediction(t *testing.T) {
	s := newTestStorage(t)

	id, err := s.RecordPrediction(testPrediction("pattern", time.Now()))
	if err != nil {
		t.Fatalf("RecordPrediction: %v", err)
	}
	if id == "" {
		t.Error("RecordPrediction returned empty id")
	}
}

func TestStorage_RecordPrediction_Rotation(t *testing.T) {
	// max_predictions=3: the oldest entries beyond the cap rotate out.
	s, err := New(3, ":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	now := time.Now()
	for i := 0; i < 5; i++ {
		pred := testPrediction(fmt.Sprintf("strategy-%d", i), now.Add(time.Duration(i)*time.Second))
		if _, err := s.RecordPrediction(pred); err != nil {
			t.Fatalf("RecordPrediction %d: %v", i, err)
		}
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		t.Fatalf("count predictions: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d predictions after rotation, want 3", count)
	}

	var oldest string
	if err := s.db.QueryRow(`SELECT strategy FROM predictions ORDER BY created_at LIMIT 1`).Scan(&oldest); err != nil {
		t.Fatalf("query oldest: %v", err)
	}
	if oldest != "strategy-2" {
		t.Errorf("oldest surviving prediction = %s, want strategy-2", oldest)
	}
}
