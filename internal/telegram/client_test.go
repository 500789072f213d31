package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/lottoracle/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello World"},
		{"Hello_World", "Hello\\_World"},
		{"Test*bold*", "Test\\*bold\\*"},
		{"confidence: 62% (medium)", "confidence: 62% \\(medium\\)"},
		{"7-22-39-51-84", "7\\-22\\-39\\-51\\-84"},
		{"[link](url)", "\\[link\\]\\(url\\)"},
		{"end!", "end\\!"},
		{"", ""},
		{"_*[]()~`>#+-=|{}.!", "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := escapeMarkdownV2(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatNumbers(t *testing.T) {
	if got := formatNumbers([]int{7, 22, 39}); got != "7-22-39" {
		t.Errorf("formatNumbers = %q, want 7-22-39", got)
	}
	if got := formatNumbers(nil); got != "" {
		t.Errorf("formatNumbers(nil) = %q, want empty", got)
	}
}

func TestFormatPrediction(t *testing.T) {
	c := &Client{}
	pred := &models.Prediction{
		Strategy: "ensemble",
		Tickets: map[string][]models.Ticket{
			"pattern": {{Numbers: models.Draw{7, 22, 39, 51, 84}, Score: 12}},
			"ml":      {{Numbers: models.Draw{3, 18, 40, 62, 77}, Score: 0.4}},
		},
		TwoSure:     []int{7, 22},
		ThreeDirect: []int{7, 22, 39},
		Confidence: map[string]models.Confidence{
			"pattern": {Confidence: 0.62, Level: "medium"},
		},
		GeneratedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}

	msg := c.formatPrediction(pred)

	// Strategies appear sorted by name, each with its ticket digest.
	mlIdx := strings.Index(msg, "*ml*")
	patternIdx := strings.Index(msg, "*pattern*")
	if mlIdx == -1 || patternIdx == -1 {
		t.Fatalf("message missing strategy sections:\n%s", msg)
	}
	if mlIdx > patternIdx {
		t.Error("strategy sections not sorted by name")
	}
	if !strings.Contains(msg, "7\\-22\\-39\\-51\\-84") {
		t.Errorf("message missing escaped pattern ticket:\n%s", msg)
	}
	if !strings.Contains(msg, "62% \\(medium\\)") {
		t.Errorf("message missing confidence line:\n%s", msg)
	}
	if !strings.Contains(msg, "Two Sure: 7\\-22") {
		t.Errorf("message missing two-sure line:\n%s", msg)
	}
	if !strings.Contains(msg, "Three Direct: 7\\-22\\-39") {
		t.Errorf("message missing three-direct line:\n%s", msg)
	}
}

func TestNewClient_InvalidChatID(t *testing.T) {
	// The bot token validation happens first (network call), so this only
	// exercises the chat ID parsing error path.
	_, err := NewClient("", "not-a-number", 3, time.Second)
	if err == nil {
		t.Error("Expected error for invalid chat ID, got nil")
	}
}
