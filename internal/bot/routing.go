package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkravets/wb-slots-bot/internal/domain/users"
	"github.com/mkravets/wb-slots-bot/internal/infra/metrics"
	"github.com/mkravets/wb-slots-bot/internal/lang"
	"github.com/mkravets/wb-slots-bot/internal/wizard"
)

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		return
	}
	chatID := msg.Chat.ID
	u, err := b.users.UpsertFromTelegram(ctx, users.Telegram{
		ID:        msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		Lang:      msg.From.LanguageCode,
	})
	if err != nil {
		b.log.Error("upsert user failed", "err", err, "tg_id", msg.From.ID)
		b.send(tgbotapi.NewMessage(chatID, lang.Load("").T("error")))
		return
	}
	l := lang.Load(u.Lang)

	switch msg.Command() {
	case "start":
		name := msg.From.FirstName
		if name == "" {
			name = msg.From.UserName
		}
		m := tgbotapi.NewMessage(chatID, l.T("start", "name", name))
		m.ReplyMarkup = mainMenuKB(l)
		b.send(m)
	case "help":
		b.send(tgbotapi.NewMessage(chatID, l.T("help")))
	}
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		b.answerCallback(cb, "", false)
		return
	}
	chatID := cb.Message.Chat.ID
	metrics.CallbacksTotal.WithLabelValues(actionLabel(cb.Data)).Inc()

	action, ok := wizard.Parse(cb.Data)
	if !ok {
		// callback от клавиатуры старой версии
		b.log.Debug("unknown callback", "data", cb.Data, "chat_id", chatID)
		b.answerCallback(cb, "", false)
		return
	}

	u, err := b.users.GetByTelegramID(ctx, cb.From.ID)
	if err != nil {
		b.log.Error("load user failed", "err", err, "tg_id", cb.From.ID)
	}
	var l lang.Lang
	if u != nil {
		l = lang.Load(u.Lang)
	} else {
		l = lang.Load(cb.From.LanguageCode)
	}

	userID := cb.From.ID
	resp, err := b.wiz.Handle(ctx, wizard.Request{
		UserID: userID,
		ChatID: chatID,
		Action: action,
	})
	if err != nil {
		metrics.HandlerErrors.Inc()
		b.log.Error("handle callback failed", "err", err, "data", cb.Data, "chat_id", chatID)
		b.answerCallback(cb, "", false)
		b.send(tgbotapi.NewEditMessageTextAndMarkup(
			chatID, cb.Message.MessageID, l.T("error"), mainMenuKB(l)))
		return
	}
	b.render(ctx, cb, l, resp)
}

// actionLabel обрезает callback до стабильного префикса, чтобы метрика
// не взрывалась по кардинальности.
func actionLabel(data string) string {
	for _, p := range []string{
		"task_mode_", "box_type_", "coefs_", "select_date_", "select_day_",
		"change_month_", "task_update_", "task_delete_", "toggle_alarm_",
		"alarm_page_", "alarm_all_", "ignore_wh_",
	} {
		if strings.HasPrefix(data, p) {
			return strings.TrimSuffix(p, "_")
		}
	}
	return data
}
