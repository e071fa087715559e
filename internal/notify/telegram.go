package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kochj23/NewsMobile/internal/logger"
	"github.com/kochj23/NewsMobile/internal/metrics"
)

// TelegramNotifier delivers notifications to a Telegram chat or channel.
type TelegramNotifier struct {
	token  string
	chatID string
	client *http.Client
}

func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Notify sends the message with retry and exponential backoff.
func (t *TelegramNotifier) Notify(ctx context.Context, title, body string) error {
	text := fmt.Sprintf("<b>%s</b>\n%s", title, body)

	maxRetries := 3
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := t.sendOnce(ctx, text)
		if err == nil {
			metrics.Global.IncrementNotificationsSent()
			return nil
		}
		logger.Warn("telegram send failed", "attempt", attempt, "max", maxRetries, "err", err)

		if attempt < maxRetries {
			wait := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("telegram: giving up after %d attempts", maxRetries)
}

func (t *TelegramNotifier) sendOnce(ctx context.Context, text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	payload := map[string]interface{}{
		"chat_id":                  t.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API status %d", resp.StatusCode)
	}
	return nil
}
