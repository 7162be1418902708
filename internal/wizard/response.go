package wizard

import "github.com/mkravets/wb-slots-bot/internal/dialog"

// Screen — какой экран транспорту рисовать. Сам мастер Telegram не
// знает: он возвращает view-модель, клавиатуру из неё собирает бот.
type Screen int

const (
	// ScreenNone — сообщение не трогаем, только всплывашка PopupKey.
	ScreenNone Screen = iota
	ScreenMain
	ScreenRules
	ScreenModeChoice
	ScreenAppendChoice
	ScreenPicker
	ScreenBoxes
	ScreenCoef
	ScreenPeriod
	ScreenCalendar
	ScreenDone
	ScreenTaskList
	ScreenEditList
	ScreenEditCard
	ScreenDeleteOneAsk
	ScreenDeleteAllAsk
	ScreenAlarm
	ScreenEmpty
	ScreenExport
)

// EditMode говорит транспорту, заменять ли всё сообщение или только
// клавиатуру под ним.
type EditMode int

const (
	EditMessage EditMode = iota
	EditKeyboard
)

// Response — результат одного шага: текстовый шаблон с аргументами,
// view-модель для клавиатуры и необязательная всплывашка.
type Response struct {
	Screen     Screen
	TextKey    string
	TextArgs   []string
	PopupKey   string
	PopupAlert bool
	EditMode   EditMode

	Picker   *PickerView
	Boxes    *BoxView
	Coef     *CoefView
	Period   *PeriodView
	Calendar *CalendarView
	List     *ListView
	Card     *TaskRow
}

// popup — ответ «ничего не перерисовывать, только показать всплывашку».
func popup(key string, alert bool) Response {
	return Response{Screen: ScreenNone, PopupKey: key, PopupAlert: alert}
}

// PickerItem — одна кнопка склада в пикере.
type PickerItem struct {
	ID       int64
	Name     string
	Selected bool
	// Existing — по складу уже есть задача; кнопка инертна.
	Existing bool
}

type PickerView struct {
	Mode       dialog.Mode
	Page       int
	TotalPages int
	Items      []PickerItem
	CanConfirm bool
}

type BoxView struct {
	Slot       dialog.Slot
	Selected   []string
	CanConfirm bool
	// BackTo — склад, к карточке которого ведёт «Назад» в редакторе.
	BackTo int64
}

type CoefView struct {
	Slot       dialog.Slot
	Selected   *int
	CanConfirm bool
	BackTo     int64
}

type PeriodView struct {
	Slot   dialog.Slot
	BackTo int64
}

type CalendarView struct {
	Slot       dialog.Slot
	Year       int
	Month      int
	Start      string
	End        string
	CanConfirm bool
	BackTo     int64
}

// TaskRow — свёрнутая группа задач по одному складу для списков,
// карточек и выгрузки.
type TaskRow struct {
	WarehouseID int64
	Name        string
	Boxes       []string
	Coef        int
	Start       string
	End         string
	Alarm       bool
}

type ListView struct {
	Page       int
	TotalPages int
	Rows       []TaskRow
}
