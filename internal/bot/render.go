package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkravets/wb-slots-bot/internal/lang"
	"github.com/mkravets/wb-slots-bot/internal/wizard"
)

// render превращает ответ мастера в правку сообщения: либо текст с
// клавиатурой целиком, либо только клавиатуру, плюс всплывашка.
func (b *Bot) render(ctx context.Context, cb *tgbotapi.CallbackQuery, l lang.Lang, resp wizard.Response) {
	popupText := ""
	if resp.PopupKey != "" {
		popupText = l.T(resp.PopupKey)
	}
	b.answerCallback(cb, popupText, resp.PopupAlert)

	switch resp.Screen {
	case wizard.ScreenNone:
		return
	case wizard.ScreenExport:
		b.sendExport(ctx, cb, l, resp)
		return
	}

	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	kb := b.keyboard(l, resp)
	if resp.EditMode == wizard.EditKeyboard {
		b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, mid, kb))
		return
	}
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, b.composeText(l, resp), kb))
}

func (b *Bot) composeText(l lang.Lang, resp wizard.Response) string {
	args := append([]string(nil), resp.TextArgs...)
	if resp.Card != nil {
		args = append(args,
			"box", boxLabels(l, resp.Card.Boxes),
			"status", alarmStatus(l, resp.Card.Alarm),
		)
	}
	text := l.T(resp.TextKey, args...)

	// Списки складов дописываются под заголовком.
	switch resp.Screen {
	case wizard.ScreenTaskList, wizard.ScreenEditList:
		if resp.List != nil && len(resp.List.Rows) > 0 {
			var sb strings.Builder
			sb.WriteString(text)
			sb.WriteString("\n")
			for _, row := range resp.List.Rows {
				sb.WriteString(fmt.Sprintf("\n%s %s: %s, ≤ х%d, %s — %s",
					alarmBadge(row.Alarm), row.Name,
					boxLabels(l, row.Boxes), row.Coef, row.Start, row.End))
			}
			text = sb.String()
		}
	case wizard.ScreenPicker:
		if resp.Picker != nil && hasExisting(resp.Picker) {
			text += "\n\n" + l.T("existing_tasks_warning")
		}
	}
	return text
}

func (b *Bot) keyboard(l lang.Lang, resp wizard.Response) tgbotapi.InlineKeyboardMarkup {
	switch resp.Screen {
	case wizard.ScreenMain:
		return mainMenuKB(l)
	case wizard.ScreenRules:
		return backMainKB(l)
	case wizard.ScreenModeChoice:
		return modeChoiceKB(l)
	case wizard.ScreenAppendChoice:
		return appendChoiceKB(l)
	case wizard.ScreenPicker:
		return pickerKB(l, resp.Picker)
	case wizard.ScreenBoxes:
		return boxKB(l, resp.Boxes)
	case wizard.ScreenCoef:
		return coefKB(l, resp.Coef)
	case wizard.ScreenPeriod:
		return periodKB(l, resp.Period)
	case wizard.ScreenCalendar:
		return calendarKB(l, resp.Calendar)
	case wizard.ScreenDone:
		return doneKB(l)
	case wizard.ScreenTaskList:
		return taskListKB(l)
	case wizard.ScreenEditList:
		return editListKB(l, resp.List)
	case wizard.ScreenEditCard:
		return editCardKB(l, resp.Card.WarehouseID)
	case wizard.ScreenDeleteOneAsk:
		return deleteOneKB(l, resp.Card.WarehouseID)
	case wizard.ScreenDeleteAllAsk:
		return deleteAllKB(l)
	case wizard.ScreenAlarm:
		return alarmKB(l, resp.List)
	case wizard.ScreenEmpty:
		return emptyKB(l)
	}
	return backMainKB(l)
}

func boxLabels(l lang.Lang, codes []string) string {
	labels := make([]string, 0, len(codes))
	for _, c := range codes {
		labels = append(labels, l.T("box."+c))
	}
	return strings.Join(labels, ", ")
}

func alarmStatus(l lang.Lang, on bool) string {
	if on {
		return l.T("status_on")
	}
	return l.T("status_off")
}

func alarmBadge(on bool) string {
	if on {
		return "🔔"
	}
	return "🔕"
}

func hasExisting(v *wizard.PickerView) bool {
	for _, it := range v.Items {
		if it.Existing {
			return true
		}
	}
	return false
}
