package wizard

import "time"

// ValidateRange — единственный источник правды о допустимости даты в
// диапазоне. picked — нажатый день, start/end — уже сохранённые границы
// (пустая строка — не задана), today — текущая календарная дата.
// Возвращает nil, если дату можно принять.
func ValidateRange(picked time.Time, start, end string, today time.Time) *ValidationError {
	picked = truncateDay(picked)
	today = truncateDay(today)

	if picked.Before(today) {
		return invalid(errInvalidDate)
	}
	if picked.Year() > today.Year()+MaxYearsAhead {
		return invalid(errInvalidYear)
	}
	if start != "" && end != "" {
		return invalid(errAlreadySelected)
	}
	if start != "" {
		s, err := time.Parse(DateLayout, start)
		if err != nil {
			return invalid(errInvalidDate)
		}
		if picked.Before(truncateDay(s)) {
			return invalid(errEndBeforeStart)
		}
	}
	return nil
}

// DaysInRange перечисляет календарные дни диапазона, оба конца
// включительно, шаг — ровно одни сутки. Даты трактуются как календарные
// дни, без часовых поясов.
func DaysInRange(start, end time.Time) []time.Time {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// normalizeMonth приводит пару год/месяц к валидной: переход за декабрь
// или до января сдвигает год. Нужен кнопкам листания календаря.
func normalizeMonth(year, month int) (int, int) {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), int(t.Month())
}

// monthBounds возвращает первый день месяца и число дней в нём.
func monthBounds(year, month int) (first time.Time, days int) {
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	return first, int(next.Sub(first).Hours() / 24)
}
