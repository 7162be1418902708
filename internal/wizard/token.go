package wizard

import (
	"strconv"
	"strings"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
)

// Kind — разобранное намерение пользователя. Callback-строка разбирается
// в Action ровно один раз на границе, дальше хендлеры ветвятся по Kind
// и типизированным полям, а не по префиксам строк.
type Kind int

const (
	KindNoop Kind = iota
	KindMainMenu
	KindRules
	KindCreateTask
	KindModeChoice
	KindEnterPicker
	KindPickerPage
	KindPickWarehouse
	KindIgnoreWarehouse
	KindConfirmWarehouses
	KindToggleBox
	KindConfirmBoxes
	KindPickCoef
	KindConfirmCoef
	KindPeriodShortcut
	KindOpenCalendar
	KindMonthNav
	KindPickDay
	KindConfirmRange
	KindMyTasks
	KindEditList
	KindEditCard
	KindEditParam
	KindDeleteAllAsk
	KindDeleteAll
	KindDeleteOneAsk
	KindDeleteOne
	KindAlarmMenu
	KindAlarmPage
	KindAlarmToggle
	KindAlarmAll
	KindExport
)

// Параметры редактирования существующей задачи.
const (
	ParamBox    = "box"
	ParamCoef   = "coef"
	ParamPeriod = "date"
)

// Action — один разобранный callback. Заполнены только поля,
// осмысленные для данного Kind.
type Action struct {
	Kind Kind

	// Slot — карман состояния, на который действует шаг: свежий мастер
	// или редактор существующей задачи.
	Slot dialog.Slot

	Mode        dialog.Mode
	Page        int
	WarehouseID int64
	Box         string
	Coef        int
	Period      string
	Param       string
	Year        int
	Month       int
	Day         int
	On          bool
}

// Parse разбирает callback-строку кнопки. Второй результат false —
// строка не принадлежит грамматике (например, callback от старой
// версии клавиатуры); такие нажатия игнорируются.
func Parse(data string) (Action, bool) {
	switch data {
	case "main":
		return Action{Kind: KindMainMenu}, true
	case "rules":
		return Action{Kind: KindRules}, true
	case "my_tasks":
		return Action{Kind: KindMyTasks}, true
	case "create_task":
		return Action{Kind: KindCreateTask}, true
	case "tasks_append":
		return Action{Kind: KindModeChoice}, true
	case "ignore":
		return Action{Kind: KindNoop}, true
	case "wh_confirm":
		return Action{Kind: KindConfirmWarehouses, Slot: dialog.SlotSetup}, true
	case "box_type_confirm":
		return Action{Kind: KindConfirmBoxes, Slot: dialog.SlotSetup}, true
	case "coefs_confirm":
		return Action{Kind: KindConfirmCoef, Slot: dialog.SlotSetup}, true
	case "select_diapason":
		return Action{Kind: KindOpenCalendar, Slot: dialog.SlotSetup}, true
	case "diapason_confirm":
		return Action{Kind: KindConfirmRange, Slot: dialog.SlotSetup}, true
	case "task_update":
		return Action{Kind: KindEditList}, true
	case "task_delete_confirm":
		return Action{Kind: KindDeleteAllAsk}, true
	case "task_delete_all":
		return Action{Kind: KindDeleteAll}, true
	case "alarm_setting":
		return Action{Kind: KindAlarmMenu}, true
	case "alarm_all_on":
		return Action{Kind: KindAlarmAll, On: true}, true
	case "alarm_all_off":
		return Action{Kind: KindAlarmAll, On: false}, true
	case "export_tasks":
		return Action{Kind: KindExport}, true
	}

	if rest, ok := strings.CutPrefix(data, "task_mode_"); ok {
		return parseTaskMode(rest)
	}
	if rest, ok := strings.CutPrefix(data, "ignore_wh_"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: KindIgnoreWarehouse, Slot: dialog.SlotSetup, WarehouseID: id}, true
	}
	if rest, ok := strings.CutPrefix(data, "box_type_"); ok {
		return Action{Kind: KindToggleBox, Slot: dialog.SlotSetup, Box: rest}, true
	}
	if rest, ok := strings.CutPrefix(data, "coefs_"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: KindPickCoef, Slot: dialog.SlotSetup, Coef: n}, true
	}
	if rest, ok := strings.CutPrefix(data, "select_date_"); ok {
		return Action{Kind: KindPeriodShortcut, Slot: dialog.SlotSetup, Period: rest}, true
	}
	if rest, ok := strings.CutPrefix(data, "change_month_"); ok {
		y, m, ok := parseYM(rest)
		if !ok {
			return Action{}, false
		}
		return Action{Kind: KindMonthNav, Slot: dialog.SlotSetup, Year: y, Month: m}, true
	}
	if rest, ok := strings.CutPrefix(data, "select_day_"); ok {
		y, m, d, ok := parseYMD(rest)
		if !ok {
			return Action{}, false
		}
		return Action{Kind: KindPickDay, Slot: dialog.SlotSetup, Year: y, Month: m, Day: d}, true
	}
	if rest, ok := strings.CutPrefix(data, "task_update_"); ok {
		return parseTaskUpdate(rest)
	}
	if rest, ok := strings.CutPrefix(data, "task_delete_yes_"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: KindDeleteOne, WarehouseID: id}, true
	}
	if rest, ok := strings.CutPrefix(data, "task_delete_id"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: KindDeleteOneAsk, WarehouseID: id}, true
	}
	if rest, ok := strings.CutPrefix(data, "alarm_page_"); ok {
		p, err := strconv.Atoi(rest)
		if err != nil || p < 0 {
			return Action{}, false
		}
		return Action{Kind: KindAlarmPage, Page: p}, true
	}
	if rest, ok := strings.CutPrefix(data, "toggle_alarm_"); ok {
		parts := strings.Split(rest, "_")
		if len(parts) != 2 {
			return Action{}, false
		}
		id, err1 := strconv.ParseInt(parts[0], 10, 64)
		p, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || p < 0 {
			return Action{}, false
		}
		return Action{Kind: KindAlarmToggle, WarehouseID: id, Page: p}, true
	}
	return Action{}, false
}

// parseTaskMode: "flex" | "mass" | "<mode>_<page>" | "<mode>_id<N>".
func parseTaskMode(rest string) (Action, bool) {
	mode, tail, _ := strings.Cut(rest, "_")
	var m dialog.Mode
	switch mode {
	case string(dialog.ModeFlex):
		m = dialog.ModeFlex
	case string(dialog.ModeMass):
		m = dialog.ModeMass
	default:
		return Action{}, false
	}
	if tail == "" {
		return Action{Kind: KindEnterPicker, Slot: dialog.SlotSetup, Mode: m}, true
	}
	if wh, ok := strings.CutPrefix(tail, "id"); ok {
		id, err := strconv.ParseInt(wh, 10, 64)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: KindPickWarehouse, Slot: dialog.SlotSetup, Mode: m, WarehouseID: id}, true
	}
	p, err := strconv.Atoi(tail)
	if err != nil || p < 0 {
		return Action{}, false
	}
	return Action{Kind: KindPickerPage, Slot: dialog.SlotSetup, Mode: m, Page: p}, true
}

// parseTaskUpdate — хвост после "task_update_". Редактор переиспользует
// те же Kind, что и свежий мастер, но со слотом update_task.
func parseTaskUpdate(rest string) (Action, bool) {
	upd := dialog.SlotUpdate
	switch rest {
	case "selbox_confirm":
		return Action{Kind: KindConfirmBoxes, Slot: upd}, true
	case "selcoef_confirm":
		return Action{Kind: KindConfirmCoef, Slot: upd}, true
	case "diapason":
		return Action{Kind: KindOpenCalendar, Slot: upd}, true
	case "seldiap_confirm":
		return Action{Kind: KindConfirmRange, Slot: upd}, true
	}
	if tail, ok := strings.CutPrefix(rest, "page_"); ok {
		p, err := strconv.Atoi(tail)
		if err != nil || p < 0 {
			return Action{}, false
		}
		return Action{Kind: KindEditList, Page: p}, true
	}
	if tail, ok := strings.CutPrefix(rest, "select_"); ok {
		id, err := strconv.ParseInt(tail, 10, 64)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: KindEditCard, WarehouseID: id}, true
	}
	for _, param := range []string{ParamBox, ParamCoef, ParamPeriod} {
		if tail, ok := strings.CutPrefix(rest, param+"_"); ok {
			id, err := strconv.ParseInt(tail, 10, 64)
			if err != nil {
				return Action{}, false
			}
			return Action{Kind: KindEditParam, Slot: upd, WarehouseID: id, Param: param}, true
		}
	}
	if tail, ok := strings.CutPrefix(rest, "selbox_"); ok {
		return Action{Kind: KindToggleBox, Slot: upd, Box: tail}, true
	}
	if tail, ok := strings.CutPrefix(rest, "selcoef_"); ok {
		n, err := strconv.Atoi(tail)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: KindPickCoef, Slot: upd, Coef: n}, true
	}
	if tail, ok := strings.CutPrefix(rest, "seldate_"); ok {
		return Action{Kind: KindPeriodShortcut, Slot: upd, Period: tail}, true
	}
	if tail, ok := strings.CutPrefix(rest, "month_"); ok {
		y, m, ok := parseYM(tail)
		if !ok {
			return Action{}, false
		}
		return Action{Kind: KindMonthNav, Slot: upd, Year: y, Month: m}, true
	}
	if tail, ok := strings.CutPrefix(rest, "selday_"); ok {
		y, m, d, ok := parseYMD(tail)
		if !ok {
			return Action{}, false
		}
		return Action{Kind: KindPickDay, Slot: upd, Year: y, Month: m, Day: d}, true
	}
	return Action{}, false
}

func parseYM(s string) (y, m int, ok bool) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 {
		return 0, 0, false
	}
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return y, m, true
}

func parseYMD(s string) (y, m, d int, ok bool) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	d, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return y, m, d, true
}
