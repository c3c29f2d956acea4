package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `envconfig:"TELEGRAM_CHAT_ID"`
	// BaseURL overrides the Telegram API host, for tests.
	BaseURL string `envconfig:"TELEGRAM_BASE_URL" default:"https://api.telegram.org"`
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// Telegram posts borrowing notifications to a chat via the Bot API.
type Telegram struct {
	cfg    TelegramConfig
	client *http.Client
	log    *zap.Logger
}

func NewTelegram(cfg TelegramConfig, log *zap.Logger) *Telegram {
	return &Telegram{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.Named("telegram"),
	}
}

func (t *Telegram) BorrowingCreated(ctx context.Context, event BorrowingCreatedEvent) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": t.cfg.ChatID,
		"text":    event.Text(),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.BaseURL, t.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "telegram sendMessage")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("telegram sendMessage: status %d", resp.StatusCode)
	}
	t.log.Debug("notification sent", zap.String("event_id", event.EventID))
	return nil
}
