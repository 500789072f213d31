// Package telegram provides a client for sending prediction digests via the
// Telegram Bot API.
package telegram

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rewired-gh/lottoracle/internal/models"
)

// Client handles Telegram notifications.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (c *Client) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if _, err := c.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendPrediction sends a digest of a prediction run.
func (c *Client) SendPrediction(pred *models.Prediction) error {
	return c.sendMarkdownV2(c.formatPrediction(pred))
}

// formatPrediction formats a prediction into a Telegram MarkdownV2 message.
func (c *Client) formatPrediction(pred *models.Prediction) string {
	var b strings.Builder
	b.WriteString("🎰 *Prediction Digest*\n\n")

	dateStr := escapeMarkdownV2(pred.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(fmt.Sprintf("📅 Generated: %s\n", dateStr))
	b.WriteString(fmt.Sprintf("🧭 Strategy: *%s*\n\n", escapeMarkdownV2(pred.Strategy)))

	names := make([]string, 0, len(pred.Tickets))
	for name := range pred.Tickets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, ticket := range pred.Tickets[name] {
			b.WriteString(fmt.Sprintf("🎯 *%s*: %s\n",
				escapeMarkdownV2(name), escapeMarkdownV2(formatNumbers(ticket.Numbers[:]))))
			if conf, ok := pred.Confidence[name]; ok {
				confStr := escapeMarkdownV2(fmt.Sprintf("%.0f%% (%s)", conf.Confidence*100, conf.Level))
				b.WriteString(fmt.Sprintf("   confidence: %s\n", confStr))
			}
		}
	}

	if len(pred.TwoSure) > 0 {
		b.WriteString(fmt.Sprintf("\n🔒 Two Sure: %s\n", escapeMarkdownV2(formatNumbers(pred.TwoSure))))
	}
	if len(pred.ThreeDirect) > 0 {
		b.WriteString(fmt.Sprintf("🎲 Three Direct: %s\n", escapeMarkdownV2(formatNumbers(pred.ThreeDirect))))
	}

	return b.String()
}

func formatNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4) // pre-allocate with room for escapes
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
