package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkravets/wb-slots-bot/internal/domain/users"
	"github.com/mkravets/wb-slots-bot/internal/wizard"
)

type Bot struct {
	api   *tgbotapi.BotAPI
	log   *slog.Logger
	users *users.Repo
	wiz   *wizard.Wizard
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, usersRepo *users.Repo, wiz *wizard.Wizard) *Bot {
	return &Bot{api: api, log: log, users: usersRepo, wiz: wiz}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}
