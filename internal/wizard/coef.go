package wizard

import (
	"context"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
)

// pickCoef — одиночный выбор потолка коэффициента. Повторное нажатие
// на выбранное значение снимает выбор целиком.
func (w *Wizard) pickCoef(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	v := req.Action.Coef
	if v < 0 || v > MaxCoef {
		return Response{}, invalid(errInvalidCoef)
	}
	if sel.Coef != nil && *sel.Coef == v {
		sel = sel.Apply(dialog.Patch{ClearCoef: true})
	} else {
		sel = sel.Apply(dialog.Patch{Coef: &v})
	}
	if err := w.sessions.Set(ctx, req.ChatID, slot, sel); err != nil {
		return Response{}, err
	}

	resp := Response{
		Screen:   ScreenCoef,
		TextKey:  "choose_coef",
		EditMode: EditKeyboard,
		Coef: &CoefView{
			Slot:       slot,
			Selected:   sel.Coef,
			CanConfirm: coefCanConfirm(sel),
		},
	}
	if slot == dialog.SlotUpdate {
		resp.TextKey = "edit_coef"
		resp.EditMode = EditMessage
		resp.Card = cardFromSelection(sel)
		resp.TextArgs = cardArgs(resp.Card)
		resp.Coef.BackTo = resp.Card.WarehouseID
	}
	return resp, nil
}

// confirmCoef — в свежем мастере переход к периоду, в редакторе —
// фиксация изменений.
func (w *Wizard) confirmCoef(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	if sel.Coef == nil {
		return popup(errNoCoefSelected, false), nil
	}
	if !coefCanConfirm(sel) {
		return popup(errNoChanges, false), nil
	}

	if slot == dialog.SlotUpdate {
		return w.commitUpdate(ctx, req, sel)
	}

	def := sel.Default
	def.PeriodStart = sel.PeriodStart
	def.PeriodEnd = sel.PeriodEnd
	sel = sel.Apply(dialog.Patch{Default: &def})
	if err := w.sessions.Set(ctx, req.ChatID, slot, sel); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:  ScreenPeriod,
		TextKey: "choose_period",
		Period:  &PeriodView{Slot: slot},
	}, nil
}

func coefCanConfirm(sel dialog.Selection) bool {
	if sel.Coef == nil {
		return false
	}
	return sel.Default.Coef == nil || *sel.Default.Coef != *sel.Coef
}
