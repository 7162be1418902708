package wizard

import (
	"context"
	"time"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
)

// periodShortcut — именованный период (сегодня/завтра/неделя/месяц)
// заполняет обе границы сразу и тут же уходит на фиксацию, минуя
// календарь.
func (w *Wizard) periodShortcut(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	start, end, ok := PeriodSpan(req.Action.Period, w.now())
	if !ok {
		return Response{}, invalid(errInvalidDate)
	}
	s := start.Format(DateLayout)
	e := end.Format(DateLayout)
	sel = sel.Apply(dialog.Patch{PeriodStart: &s, PeriodEnd: &e})

	if slot == dialog.SlotUpdate {
		if periodUnchanged(sel) {
			return popup(errNoChanges, false), nil
		}
		return w.commitUpdate(ctx, req, sel)
	}
	return w.materializeSetup(ctx, req, sel)
}

// openCalendar — вход в сетку календаря. Границы периода сбрасываются:
// выбор диапазона всегда начинается с чистого листа.
func (w *Wizard) openCalendar(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	empty := ""
	sel = sel.Apply(dialog.Patch{PeriodStart: &empty, PeriodEnd: &empty})
	if err := w.sessions.Set(ctx, req.ChatID, slot, sel); err != nil {
		return Response{}, err
	}
	today := w.now()
	return Response{
		Screen:  ScreenCalendar,
		TextKey: "calendar_pick_start",
		Calendar: &CalendarView{
			Slot:   slot,
			Year:   today.Year(),
			Month:  int(today.Month()),
			BackTo: editBackTo(slot, sel),
		},
	}, nil
}

// monthNav листает сетку. Состояние не трогается, перерисовывается
// только клавиатура.
func (w *Wizard) monthNav(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	y, m := normalizeMonth(req.Action.Year, req.Action.Month)
	return Response{
		Screen:   ScreenCalendar,
		TextKey:  calendarTextKey(sel),
		TextArgs: []string{"start", sel.PeriodStart},
		EditMode: EditKeyboard,
		Calendar: &CalendarView{
			Slot:       slot,
			Year:       y,
			Month:      m,
			Start:      sel.PeriodStart,
			End:        sel.PeriodEnd,
			CanConfirm: sel.PeriodStart != "",
			BackTo:     editBackTo(slot, sel),
		},
	}, nil
}

// pickDay — нажат день в сетке. Первая валидная дата становится началом
// периода, вторая — концом; отказ показывается всплывашкой без смены
// состояния.
func (w *Wizard) pickDay(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	a := req.Action
	if a.Month < 1 || a.Month > 12 || a.Day < 1 {
		return Response{}, invalid(errInvalidDate)
	}
	picked := time.Date(a.Year, time.Month(a.Month), a.Day, 0, 0, 0, 0, time.UTC)
	// time.Date нормализует 31 февраля в март; такое нажатие отклоняем.
	if int(picked.Month()) != a.Month || picked.Day() != a.Day {
		return Response{}, invalid(errInvalidDate)
	}
	if ve := ValidateRange(picked, sel.PeriodStart, sel.PeriodEnd, w.now()); ve != nil {
		return Response{}, ve
	}

	day := picked.Format(DateLayout)
	if sel.PeriodStart == "" {
		sel = sel.Apply(dialog.Patch{PeriodStart: &day})
	} else {
		sel = sel.Apply(dialog.Patch{PeriodEnd: &day})
	}
	if err := w.sessions.Set(ctx, req.ChatID, slot, sel); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:   ScreenCalendar,
		TextKey:  calendarTextKey(sel),
		TextArgs: []string{"start", sel.PeriodStart},
		Calendar: &CalendarView{
			Slot:       slot,
			Year:       a.Year,
			Month:      a.Month,
			Start:      sel.PeriodStart,
			End:        sel.PeriodEnd,
			CanConfirm: sel.PeriodStart != "",
			BackTo:     editBackTo(slot, sel),
		},
	}, nil
}

// confirmRange — подтверждение диапазона из календаря. Один выбранный
// день считается диапазоном из самого себя.
func (w *Wizard) confirmRange(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	if sel.PeriodStart == "" {
		return popup(errNoDateSelected, false), nil
	}
	if sel.PeriodEnd == "" {
		s := sel.PeriodStart
		sel = sel.Apply(dialog.Patch{PeriodEnd: &s})
	}

	if slot == dialog.SlotUpdate {
		if periodUnchanged(sel) {
			return popup(errNoChanges, false), nil
		}
		return w.commitUpdate(ctx, req, sel)
	}
	return w.materializeSetup(ctx, req, sel)
}

// periodUnchanged — правка периода совпала со снимком «до правки».
func periodUnchanged(sel dialog.Selection) bool {
	return sel.PeriodStart == sel.Default.PeriodStart &&
		sel.PeriodEnd == sel.Default.PeriodEnd
}

func calendarTextKey(sel dialog.Selection) string {
	if sel.PeriodStart == "" {
		return "calendar_pick_start"
	}
	return "calendar_pick_end"
}

// editBackTo — склад для кнопки «Назад» в календаре редактора.
func editBackTo(slot dialog.Slot, sel dialog.Selection) int64 {
	if slot != dialog.SlotUpdate || len(sel.List) == 0 {
		return 0
	}
	return sel.List[0]
}
