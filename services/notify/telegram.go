package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "wgwatcher/pkg/errors"
)

// sendMessageRequest is the Telegram Bot API sendMessage payload
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// TelegramNotifier sends messages through the Telegram Bot API
type TelegramNotifier struct {
	client         *http.Client
	apiBase        string
	token          string
	chatID         string
	disablePreview bool
}

// NewTelegramNotifier creates a notifier for the given bot token and chat id.
// apiURL is the API origin without a trailing slash, normally
// https://api.telegram.org.
func NewTelegramNotifier(apiURL, token, chatID string, timeout time.Duration, disablePreview bool) *TelegramNotifier {
	return &TelegramNotifier{
		client:         &http.Client{Timeout: timeout},
		apiBase:        apiURL,
		token:          token,
		chatID:         chatID,
		disablePreview: disablePreview,
	}
}

// Send posts text as an HTML-formatted message
func (t *TelegramNotifier) Send(text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: t.disablePreview,
	})
	if err != nil {
		return apperrors.NewNotify("sendMessage", "failed to encode message", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	resp, err := t.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewNotify("sendMessage", "failed to send message", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewNotify("sendMessage",
			fmt.Sprintf("unexpected status code: %d: %s", resp.StatusCode, bytes.TrimSpace(body)), nil)
	}
	return nil
}
