package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxMessageLen = 3800

// Telegram sends plain-text notifications through the Bot API.
// A zero or disabled notifier drops messages silently so callers
// never need to branch on configuration.
type Telegram struct {
	Token   string
	ChatID  string
	BaseURL string // override for tests; default api.telegram.org
	Client  *http.Client
}

func (t *Telegram) Enabled() bool {
	return t != nil && strings.TrimSpace(t.Token) != "" && strings.TrimSpace(t.ChatID) != ""
}

func (t *Telegram) client() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return &http.Client{Timeout: 12 * time.Second}
}

func (t *Telegram) endpoint() string {
	base := t.BaseURL
	if base == "" {
		base = "https://api.telegram.org"
	}
	return fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(base, "/"), t.Token)
}

// Send posts text to the configured chat. Long messages are truncated
// below the Bot API limit. Errors never leak the token.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if !t.Enabled() {
		slog.Debug("Telegram notify disabled; dropping message")
		return nil
	}
	msg := strings.TrimSpace(text)
	if msg == "" {
		return nil
	}
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "\n...(truncated)"
	}

	body, _ := json.Marshal(map[string]any{
		"chat_id":                  t.ChatID,
		"text":                     msg,
		"disable_web_page_preview": true,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client().Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram send status: %d", resp.StatusCode)
	}
	return nil
}
