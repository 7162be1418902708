package wizard

import (
	"context"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
)

// enterPicker — вход в выбор складов. Прежнее состояние слота
// сбрасывается: смена режима или повторный вход всегда начинают мастер
// заново.
func (w *Wizard) enterPicker(ctx context.Context, req Request) (Response, error) {
	sel := dialog.NewSelection(req.Action.Mode)

	existing, err := w.tasks.UserWarehouseIDs(ctx, req.UserID)
	if err != nil {
		return Response{}, err
	}
	sel = sel.Apply(dialog.Patch{ExistingTaskIDs: existing})

	sel, view, err := w.buildPicker(ctx, sel)
	if err != nil {
		return Response{}, err
	}
	if err := w.sessions.Set(ctx, req.ChatID, dialog.SlotSetup, sel); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:  ScreenPicker,
		TextKey: "choose_warehouse",
		Picker:  view,
	}, nil
}

// pickerPage — листание каталога. Выбор не трогаем, двигаем только курсор.
func (w *Wizard) pickerPage(ctx context.Context, req Request) (Response, error) {
	sel, err := w.pickerState(ctx, req)
	if err != nil {
		return Response{}, err
	}
	page := req.Action.Page
	sel = sel.Apply(dialog.Patch{CurrentPage: &page})

	sel, view, err := w.buildPicker(ctx, sel)
	if err != nil {
		return Response{}, err
	}
	if err := w.sessions.Set(ctx, req.ChatID, dialog.SlotSetup, sel); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:   ScreenPicker,
		TextKey:  "choose_warehouse",
		EditMode: EditKeyboard,
		Picker:   view,
	}, nil
}

// pickWarehouse — нажат склад. Страница не меняется, чтобы выбор не
// уводил пользователя с текущего экрана.
func (w *Wizard) pickWarehouse(ctx context.Context, req Request) (Response, error) {
	sel, err := w.pickerState(ctx, req)
	if err != nil {
		return Response{}, err
	}
	// Повторная постановка склада с активной задачей блокируется: одна
	// группа задач на склад.
	if sel.HasExistingTask(req.Action.WarehouseID) {
		return popup(errTaskExists, false), nil
	}
	sel = sel.Apply(dialog.Patch{
		List: ToggleWarehouse(sel.List, req.Action.WarehouseID, sel.Mode),
	})

	sel, view, err := w.buildPicker(ctx, sel)
	if err != nil {
		return Response{}, err
	}
	if err := w.sessions.Set(ctx, req.ChatID, dialog.SlotSetup, sel); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:   ScreenPicker,
		TextKey:  "choose_warehouse",
		EditMode: EditKeyboard,
		Picker:   view,
	}, nil
}

// confirmWarehouses — переход к выбору упаковки. Срабатывает только при
// непустом выборе; снимок Default фиксирует значения «до правки».
func (w *Wizard) confirmWarehouses(ctx context.Context, req Request) (Response, error) {
	sel, err := w.session(ctx, req.ChatID, dialog.SlotSetup)
	if err != nil {
		return Response{}, err
	}
	if len(sel.List) == 0 || len(sel.SelectedList) == 0 {
		return popup(errNothingSelected, false), nil
	}
	def := sel.Default
	def.BoxTypes = append([]string(nil), sel.BoxTypes...)
	sel = sel.Apply(dialog.Patch{Default: &def})
	if err := w.sessions.Set(ctx, req.ChatID, dialog.SlotSetup, sel); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:  ScreenBoxes,
		TextKey: "choose_box",
		Boxes: &BoxView{
			Slot:       dialog.SlotSetup,
			Selected:   sel.BoxTypes,
			CanConfirm: boxCanConfirm(sel),
		},
	}, nil
}

// pickerState достаёт состояние пикера, сбрасывая его при смене режима
// или отсутствии: это явный reset-переход, а не ошибка.
func (w *Wizard) pickerState(ctx context.Context, req Request) (dialog.Selection, error) {
	stored, err := w.sessions.Get(ctx, req.ChatID, dialog.SlotSetup)
	if err != nil {
		return dialog.Selection{}, err
	}
	if stored != nil && stored.Mode == req.Action.Mode {
		return *stored, nil
	}
	sel := dialog.NewSelection(req.Action.Mode)
	existing, err := w.tasks.UserWarehouseIDs(ctx, req.UserID)
	if err != nil {
		return dialog.Selection{}, err
	}
	return sel.Apply(dialog.Patch{ExistingTaskIDs: existing}), nil
}

// buildPicker читает текущую страницу каталога, пересобирает
// selected_list и собирает view: видимые строки с флагами выбора и
// «уже отслеживается».
func (w *Wizard) buildPicker(ctx context.Context, sel dialog.Selection) (dialog.Selection, *PickerView, error) {
	offset := sel.CurrentPage * w.pageSize
	rows, total, err := w.catalog.Page(ctx, w.pageSize, offset)
	if err != nil {
		return sel, nil, err
	}

	merged := mergeCatalog(sel.SelectedList, rows)
	sel = sel.Apply(dialog.Patch{SelectedList: SyncSelected(merged, sel.List)})

	items := make([]PickerItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, PickerItem{
			ID:       row.ID,
			Name:     row.Name,
			Selected: sel.Selected(row.ID),
			Existing: sel.HasExistingTask(row.ID),
		})
	}
	view := &PickerView{
		Mode:       sel.Mode,
		Page:       sel.CurrentPage,
		TotalPages: pages(total, w.pageSize),
		Items:      items,
		CanConfirm: len(sel.List) > 0 && len(sel.SelectedList) > 0,
	}
	return sel, view, nil
}

func pages(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
