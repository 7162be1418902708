package wizard

import (
	"context"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
)

// toggleBox — мультивыбор типа упаковки, общий для свежего мастера и
// редактора (различаются слотом состояния).
func (w *Wizard) toggleBox(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	if _, ok := BoxTypeID(req.Action.Box); !ok {
		return Response{}, invalid(errInvalidBoxType)
	}
	sel = sel.Apply(dialog.Patch{
		BoxTypes: ToggleSelection(sel.BoxTypes, req.Action.Box, false),
	})
	if err := w.sessions.Set(ctx, req.ChatID, slot, sel); err != nil {
		return Response{}, err
	}

	resp := Response{
		Screen:   ScreenBoxes,
		TextKey:  "choose_box",
		EditMode: EditKeyboard,
		Boxes: &BoxView{
			Slot:       slot,
			Selected:   sel.BoxTypes,
			CanConfirm: boxCanConfirm(sel),
		},
	}
	if slot == dialog.SlotUpdate {
		resp.TextKey = "edit_box"
		resp.EditMode = EditMessage
		resp.Card = cardFromSelection(sel)
		resp.TextArgs = cardArgs(resp.Card)
		resp.Boxes.BackTo = resp.Card.WarehouseID
	}
	return resp, nil
}

// confirmBoxes — в свежем мастере переход к коэффициенту, в редакторе —
// немедленная фиксация изменений.
func (w *Wizard) confirmBoxes(ctx context.Context, req Request) (Response, error) {
	slot := req.Action.Slot
	sel, err := w.session(ctx, req.ChatID, slot)
	if err != nil {
		return Response{}, err
	}
	if len(sel.BoxTypes) == 0 {
		return popup(errNoBoxSelected, false), nil
	}
	if equalStrings(sel.BoxTypes, sel.Default.BoxTypes) {
		return popup(errNoChanges, false), nil
	}

	if slot == dialog.SlotUpdate {
		return w.commitUpdate(ctx, req, sel)
	}

	def := sel.Default
	if sel.Coef != nil {
		c := *sel.Coef
		def.Coef = &c
	} else {
		def.Coef = nil
	}
	sel = sel.Apply(dialog.Patch{Default: &def})
	if err := w.sessions.Set(ctx, req.ChatID, slot, sel); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:  ScreenCoef,
		TextKey: "choose_coef",
		Coef: &CoefView{
			Slot:       slot,
			Selected:   sel.Coef,
			CanConfirm: coefCanConfirm(sel),
		},
	}, nil
}

func boxCanConfirm(sel dialog.Selection) bool {
	return len(sel.BoxTypes) > 0 && !equalStrings(sel.BoxTypes, sel.Default.BoxTypes)
}
