package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
	"github.com/mkravets/wb-slots-bot/internal/lang"
	"github.com/mkravets/wb-slots-bot/internal/wizard"
)

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func mainMenuKB(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.create_task"), "create_task")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.my_tasks"), "my_tasks")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.alarm"), "alarm_setting")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.export"), "export_tasks")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.rules"), "rules")),
	)
}

func backMainKB(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.main"), "main")),
	)
}

func modeChoiceKB(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn(l.T("btn.mode_mass"), "task_mode_mass"),
			btn(l.T("btn.mode_flex"), "task_mode_flex"),
		),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.main"), "main")),
	)
}

func appendChoiceKB(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.new_list"), "task_delete_confirm")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.append"), "tasks_append")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.main"), "main")),
	)
}

func pickerKB(l lang.Lang, v *wizard.PickerView) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, it := range v.Items {
		text := it.Name
		data := fmt.Sprintf("task_mode_%s_id%d", v.Mode, it.ID)
		switch {
		case it.Existing:
			text = "🔔 " + text
			data = fmt.Sprintf("ignore_wh_%d", it.ID)
		case it.Selected:
			text = "🟢 " + text
		}
		row = append(row, btn(text, data))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if nav := pageNav(l, v.Page, v.TotalPages, func(p int) string {
		return fmt.Sprintf("task_mode_%s_%d", v.Mode, p)
	}); nav != nil {
		rows = append(rows, nav)
	}
	if v.CanConfirm {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.confirm"), "wh_confirm")))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.main"), "main")))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func boxKB(l lang.Lang, v *wizard.BoxView) tgbotapi.InlineKeyboardMarkup {
	prefix, confirm := "box_type_", "box_type_confirm"
	if v.Slot == dialog.SlotUpdate {
		prefix, confirm = "task_update_selbox_", "task_update_selbox_confirm"
	}
	selected := map[string]bool{}
	for _, c := range v.Selected {
		selected[c] = true
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, code := range wizard.BoxCodes {
		text := l.T("box." + code)
		if selected[code] {
			text = "✅ " + text
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(text, prefix+code)))
	}
	if v.CanConfirm {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.confirm"), confirm)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backBtn(l, v.Slot, v.BackTo)))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func coefKB(l lang.Lang, v *wizard.CoefView) tgbotapi.InlineKeyboardMarkup {
	prefix, confirm := "coefs_", "coefs_confirm"
	if v.Slot == dialog.SlotUpdate {
		prefix, confirm = "task_update_selcoef_", "task_update_selcoef_confirm"
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for n := 0; n <= wizard.MaxCoef; n++ {
		text := l.T("coef.upto", "n", fmt.Sprint(n))
		if n == 0 {
			text = l.T("coef.free")
		}
		if v.Selected != nil && *v.Selected == n {
			text = "✅ " + text
		}
		row = append(row, btn(text, fmt.Sprintf("%s%d", prefix, n)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	if v.CanConfirm {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.confirm"), confirm)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backBtn(l, v.Slot, v.BackTo)))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func periodKB(l lang.Lang, v *wizard.PeriodView) tgbotapi.InlineKeyboardMarkup {
	prefix, grid := "select_date_", "select_diapason"
	if v.Slot == dialog.SlotUpdate {
		prefix, grid = "task_update_seldate_", "task_update_diapason"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn(l.T("btn.today"), prefix+wizard.PeriodToday),
			btn(l.T("btn.tomorrow"), prefix+wizard.PeriodTomorrow),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn(l.T("btn.week"), prefix+wizard.PeriodWeek),
			btn(l.T("btn.month"), prefix+wizard.PeriodMonth),
		),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.calendar"), grid)),
		tgbotapi.NewInlineKeyboardRow(backBtn(l, v.Slot, v.BackTo)),
	)
}

// calendarKB — сетка месяца, понедельник в первой колонке.
func calendarKB(l lang.Lang, v *wizard.CalendarView) tgbotapi.InlineKeyboardMarkup {
	monthPrefix, dayPrefix, confirm := "change_month_", "select_day_", "diapason_confirm"
	if v.Slot == dialog.SlotUpdate {
		monthPrefix, dayPrefix, confirm = "task_update_month_", "task_update_selday_", "task_update_seldiap_confirm"
	}

	first := time.Date(v.Year, time.Month(v.Month), 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()
	months := l.List("months")

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			btn("⬅️", fmt.Sprintf("%s%d_%d", monthPrefix, v.Year, v.Month-1)),
			btn(fmt.Sprintf("%s %d", months[v.Month-1], v.Year), "ignore"),
			btn("➡️", fmt.Sprintf("%s%d_%d", monthPrefix, v.Year, v.Month+1)),
		),
	}

	week := []tgbotapi.InlineKeyboardButton{}
	for _, wd := range l.List("weekdays") {
		week = append(week, btn(wd, "ignore"))
	}
	rows = append(rows, week)

	offset := (int(first.Weekday()) + 6) % 7
	row := []tgbotapi.InlineKeyboardButton{}
	for i := 0; i < offset; i++ {
		row = append(row, btn(" ", "ignore"))
	}
	for d := 1; d <= daysIn; d++ {
		date := fmt.Sprintf("%04d-%02d-%02d", v.Year, v.Month, d)
		text := fmt.Sprint(d)
		if date == v.Start || date == v.End {
			text = "🟢" + text
		}
		row = append(row, btn(text, fmt.Sprintf("%s%d_%d_%d", dayPrefix, v.Year, v.Month, d)))
		if len(row) == 7 {
			rows = append(rows, row)
			row = nil
		}
	}
	for len(row) > 0 && len(row) < 7 {
		row = append(row, btn(" ", "ignore"))
	}
	if len(row) == 7 {
		rows = append(rows, row)
	}

	if v.CanConfirm {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.confirm"), confirm)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(backBtn(l, v.Slot, v.BackTo)))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func doneKB(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.my_tasks"), "my_tasks")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.main"), "main")),
	)
}

func taskListKB(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.create_task"), "create_task")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.edit_tasks"), "task_update")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.delete_all"), "task_delete_confirm")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.export"), "export_tasks")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.main"), "main")),
	)
}

func editListKB(l lang.Lang, v *wizard.ListView) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, r := range v.Rows {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			btn(r.Name, fmt.Sprintf("task_update_select_%d", r.WarehouseID)),
		))
	}
	if nav := pageNav(l, v.Page, v.TotalPages, func(p int) string {
		return fmt.Sprintf("task_update_page_%d", p)
	}); nav != nil {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.back"), "my_tasks")))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func editCardKB(l lang.Lang, wid int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.edit_box"), fmt.Sprintf("task_update_box_%d", wid))),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.edit_coef"), fmt.Sprintf("task_update_coef_%d", wid))),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.edit_period"), fmt.Sprintf("task_update_date_%d", wid))),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.delete_task"), fmt.Sprintf("task_delete_id%d", wid))),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.back"), "task_update")),
	)
}

func deleteOneKB(l lang.Lang, wid int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.yes"), fmt.Sprintf("task_delete_yes_%d", wid))),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.cancel"), fmt.Sprintf("task_update_select_%d", wid))),
	)
}

func deleteAllKB(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.yes"), "task_delete_all")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.cancel"), "my_tasks")),
	)
}

func alarmKB(l lang.Lang, v *wizard.ListView) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, r := range v.Rows {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			btn(fmt.Sprintf("%s %s", alarmBadge(r.Alarm), r.Name),
				fmt.Sprintf("toggle_alarm_%d_%d", r.WarehouseID, v.Page)),
		))
	}
	if nav := pageNav(l, v.Page, v.TotalPages, func(p int) string {
		return fmt.Sprintf("alarm_page_%d", p)
	}); nav != nil {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		btn(l.T("btn.alarm_all_on"), "alarm_all_on"),
		btn(l.T("btn.alarm_all_off"), "alarm_all_off"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.main"), "main")))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func emptyKB(l lang.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.create_task"), "create_task")),
		tgbotapi.NewInlineKeyboardRow(btn(l.T("btn.main"), "main")),
	)
}

// pageNav — строка листания; nil, если страница одна.
func pageNav(l lang.Lang, page, total int, data func(int) string) []tgbotapi.InlineKeyboardButton {
	if total <= 1 {
		return nil
	}
	row := []tgbotapi.InlineKeyboardButton{}
	if page > 0 {
		row = append(row, btn(l.T("btn.prev"), data(page-1)))
	}
	if page < total-1 {
		row = append(row, btn(l.T("btn.next"), data(page+1)))
	}
	if len(row) == 0 {
		return nil
	}
	return row
}

// backBtn — «Назад» из шага: в редакторе на карточку склада, в свежем
// мастере в главное меню.
func backBtn(l lang.Lang, slot dialog.Slot, wid int64) tgbotapi.InlineKeyboardButton {
	if slot == dialog.SlotUpdate && wid != 0 {
		return btn(l.T("btn.back"), fmt.Sprintf("task_update_select_%d", wid))
	}
	return btn(l.T("btn.main"), "main")
}
