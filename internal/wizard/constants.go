package wizard

import "time"

const (
	// MaxCoef — потолок коэффициента приёмки, который можно выбрать.
	MaxCoef = 20

	// MaxYearsAhead — календарь не принимает даты дальше этого горизонта.
	MaxYearsAhead = 20

	// DateLayout — формат дат в состоянии мастера и в задачах.
	DateLayout = "2006-01-02"

	defaultPageSize = 10
)

// Коды типов упаковки — закрытое перечисление из трёх значений.
const (
	BoxMono = "mono"
	BoxSafe = "safe"
	BoxPan  = "pan"
)

// BoxCodes — порядок показа типов упаковки на клавиатуре.
var BoxCodes = []string{BoxMono, BoxSafe, BoxPan}

// boxTypeIDs отображает код упаковки в числовой идентификатор WB,
// который уходит в строки задач.
var boxTypeIDs = map[string]int{
	BoxMono: 5,
	BoxSafe: 6,
	BoxPan:  2,
}

// BoxTypeID возвращает числовой id типа упаковки.
func BoxTypeID(code string) (int, bool) {
	id, ok := boxTypeIDs[code]
	return id, ok
}

// BoxTypeCode — обратное отображение, для посева редактора из строк задач.
func BoxTypeCode(id int) (string, bool) {
	for code, v := range boxTypeIDs {
		if v == id {
			return code, true
		}
	}
	return "", false
}

// Именованные периоды, заполняющие диапазон без календаря.
const (
	PeriodToday    = "today"
	PeriodTomorrow = "tomorrow"
	PeriodWeek     = "week"
	PeriodMonth    = "month"
)

// PeriodShortcuts — порядок кнопок быстрых периодов.
var PeriodShortcuts = []string{PeriodToday, PeriodTomorrow, PeriodWeek, PeriodMonth}

// PeriodSpan считает границы именованного периода от заданного «сегодня».
// Границы включительные.
func PeriodSpan(name string, today time.Time) (start, end time.Time, ok bool) {
	today = truncateDay(today)
	switch name {
	case PeriodToday:
		return today, today, true
	case PeriodTomorrow:
		d := today.AddDate(0, 0, 1)
		return d, d, true
	case PeriodWeek:
		return today, today.AddDate(0, 0, 6), true
	case PeriodMonth:
		return today, today.AddDate(0, 1, -1), true
	}
	return time.Time{}, time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
