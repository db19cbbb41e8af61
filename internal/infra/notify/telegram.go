package notify

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

// Telegram pushes low-stock alerts to the admin chat. It implements
// ledger.AlertSink.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

func (t *Telegram) LowStock(alerts []ledger.Alert) {
	var b strings.Builder
	b.WriteString("⚠️ Low stock\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "• %s: %g %s (min %g %s)\n",
			a.Material, a.Current, a.Unit, a.Threshold, a.Unit)
	}

	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, b.String())); err != nil {
		t.log.Error("low stock alert send failed", "err", err)
	}
}
