package wizard

import (
	"context"
	"strconv"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
	"github.com/mkravets/wb-slots-bot/internal/domain/tasks"
)

// myTasks — обзор всех групп задач пользователя.
func (w *Wizard) myTasks(ctx context.Context, req Request) (Response, error) {
	rows, err := w.overviewRows(ctx, req.UserID, nil, 0, 0)
	if err != nil {
		return Response{}, err
	}
	if len(rows) == 0 {
		return Response{Screen: ScreenEmpty, TextKey: "no_task"}, nil
	}
	return Response{
		Screen:  ScreenTaskList,
		TextKey: "my_tasks",
		List:    &ListView{Rows: rows},
	}, nil
}

// editList — постраничный выбор склада для редактирования.
func (w *Wizard) editList(ctx context.Context, req Request) (Response, error) {
	return w.editListPage(ctx, req.UserID, req.Action.Page)
}

func (w *Wizard) editListPage(ctx context.Context, userID int64, page int) (Response, error) {
	total, err := w.tasks.CountWarehouses(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if total == 0 {
		return Response{Screen: ScreenEmpty, TextKey: "no_task"}, nil
	}
	rows, err := w.overviewRows(ctx, userID, nil, w.pageSize, page*w.pageSize)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Screen:  ScreenEditList,
		TextKey: "my_tasks",
		List: &ListView{
			Page:       page,
			TotalPages: pages(total, w.pageSize),
			Rows:       rows,
		},
	}, nil
}

// editCard — карточка группы задач одного склада. Здесь же сеется
// сессия редактора: дальнейшие шаги меняют копию в слоте update_task,
// а не строки в базе.
func (w *Wizard) editCard(ctx context.Context, req Request) (Response, error) {
	card, err := w.loadCard(ctx, req.UserID, req.Action.WarehouseID)
	if err != nil {
		return Response{}, err
	}
	if card == nil {
		return Response{Screen: ScreenEmpty, TextKey: "no_task"}, nil
	}
	sel := seedSelection(card)
	if err := w.sessions.Set(ctx, req.ChatID, dialog.SlotUpdate, sel); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:   ScreenEditCard,
		TextKey:  "task_card",
		Card:     card,
		TextArgs: cardArgs(card),
	}, nil
}

// editParam — вход в правку одного параметра группы. Снимок Default
// фиксирует текущее значение, чтобы подтверждение без изменений не
// перегенерировало задачи впустую.
func (w *Wizard) editParam(ctx context.Context, req Request) (Response, error) {
	wid := req.Action.WarehouseID
	stored, err := w.sessions.Get(ctx, req.ChatID, dialog.SlotUpdate)
	if err != nil {
		return Response{}, err
	}
	var sel dialog.Selection
	if stored != nil && len(stored.List) > 0 && stored.List[0] == wid {
		sel = *stored
	} else {
		// Сессия протухла или указывает на другой склад — пересев из базы.
		card, err := w.loadCard(ctx, req.UserID, wid)
		if err != nil {
			return Response{}, err
		}
		if card == nil {
			return Response{Screen: ScreenEmpty, TextKey: "no_task"}, nil
		}
		sel = seedSelection(card)
	}

	def := sel.Default
	switch req.Action.Param {
	case ParamBox:
		def.BoxTypes = append([]string(nil), sel.BoxTypes...)
	case ParamCoef:
		if sel.Coef != nil {
			c := *sel.Coef
			def.Coef = &c
		} else {
			def.Coef = nil
		}
	case ParamPeriod:
		def.PeriodStart = sel.PeriodStart
		def.PeriodEnd = sel.PeriodEnd
	}
	sel = sel.Apply(dialog.Patch{Default: &def})
	if err := w.sessions.Set(ctx, req.ChatID, dialog.SlotUpdate, sel); err != nil {
		return Response{}, err
	}

	card := cardFromSelection(sel)
	resp := Response{Card: card, TextArgs: cardArgs(card)}
	switch req.Action.Param {
	case ParamBox:
		resp.Screen = ScreenBoxes
		resp.TextKey = "edit_box"
		resp.Boxes = &BoxView{
			Slot:       dialog.SlotUpdate,
			Selected:   sel.BoxTypes,
			CanConfirm: boxCanConfirm(sel),
			BackTo:     wid,
		}
	case ParamCoef:
		resp.Screen = ScreenCoef
		resp.TextKey = "edit_coef"
		resp.Coef = &CoefView{
			Slot:       dialog.SlotUpdate,
			Selected:   sel.Coef,
			CanConfirm: coefCanConfirm(sel),
			BackTo:     wid,
		}
	case ParamPeriod:
		resp.Screen = ScreenPeriod
		resp.TextKey = "edit_period"
		resp.Period = &PeriodView{Slot: dialog.SlotUpdate, BackTo: wid}
	}
	return resp, nil
}

// deleteOneAsk — запрос подтверждения удаления одной группы.
func (w *Wizard) deleteOneAsk(ctx context.Context, req Request) (Response, error) {
	card, err := w.loadCard(ctx, req.UserID, req.Action.WarehouseID)
	if err != nil {
		return Response{}, err
	}
	if card == nil {
		return Response{Screen: ScreenEmpty, TextKey: "no_task"}, nil
	}
	return Response{
		Screen:   ScreenDeleteOneAsk,
		TextKey:  "confirm_delete_task",
		TextArgs: []string{"warehouse", card.Name},
		Card:     card,
	}, nil
}

func (w *Wizard) deleteOne(ctx context.Context, req Request) (Response, error) {
	card, err := w.loadCard(ctx, req.UserID, req.Action.WarehouseID)
	if err != nil {
		return Response{}, err
	}
	name := ""
	if card != nil {
		name = card.Name
	}
	if _, err := w.tasks.DeleteByUserAndWarehouse(ctx, req.UserID, req.Action.WarehouseID); err != nil {
		return Response{}, err
	}
	if err := w.sessions.Clear(ctx, req.ChatID, dialog.SlotUpdate); err != nil {
		return Response{}, err
	}
	resp, err := w.editListPage(ctx, req.UserID, 0)
	if err != nil {
		return Response{}, err
	}
	resp.TextKey = "task_deleted"
	resp.TextArgs = []string{"warehouse", name}
	return resp, nil
}

func (w *Wizard) deleteAll(ctx context.Context, req Request) (Response, error) {
	if _, err := w.tasks.DeleteByUser(ctx, req.UserID); err != nil {
		return Response{}, err
	}
	if err := w.sessions.Clear(ctx, req.ChatID, dialog.SlotUpdate); err != nil {
		return Response{}, err
	}
	return Response{Screen: ScreenMain, TextKey: "tasks_deleted"}, nil
}

// export — строки для выгрузки в Excel; файл собирает транспорт.
func (w *Wizard) export(ctx context.Context, req Request) (Response, error) {
	rows, err := w.overviewRows(ctx, req.UserID, nil, 0, 0)
	if err != nil {
		return Response{}, err
	}
	if len(rows) == 0 {
		return popup("export_empty", false), nil
	}
	return Response{
		Screen:  ScreenExport,
		TextKey: "export_caption",
		List:    &ListView{Rows: rows},
	}, nil
}

// overviewRows собирает свёртки задач с именами складов из каталога.
// limit <= 0 — без пагинации.
func (w *Wizard) overviewRows(ctx context.Context, userID int64, warehouseIDs []int64, limit, offset int) ([]TaskRow, error) {
	if limit <= 0 {
		limit = 1000
		offset = 0
	}
	groups, err := w.tasks.GroupsByWarehouse(ctx, userID, warehouseIDs, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.WarehouseID)
	}
	names, err := w.warehouseNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	rows := make([]TaskRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, groupRow(g, names[g.WarehouseID]))
	}
	return rows, nil
}

func (w *Wizard) warehouseNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	whs, err := w.catalog.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(whs))
	for _, wh := range whs {
		names[wh.ID] = wh.Name
	}
	return names, nil
}

// loadCard читает одну свёртку из базы; nil — задач по складу нет.
func (w *Wizard) loadCard(ctx context.Context, userID, warehouseID int64) (*TaskRow, error) {
	groups, err := w.tasks.GroupsByWarehouse(ctx, userID, []int64{warehouseID}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}
	names, err := w.warehouseNames(ctx, []int64{warehouseID})
	if err != nil {
		return nil, err
	}
	row := groupRow(groups[0], names[warehouseID])
	return &row, nil
}

func groupRow(g tasks.Group, name string) TaskRow {
	codes := make([]string, 0, len(g.BoxTypeIDs))
	for _, id := range g.BoxTypeIDs {
		if code, ok := BoxTypeCode(int(id)); ok {
			codes = append(codes, code)
		}
	}
	return TaskRow{
		WarehouseID: g.WarehouseID,
		Name:        name,
		Boxes:       codes,
		Coef:        g.MaxCoef,
		Start:       g.PeriodStart.Format(DateLayout),
		End:         g.PeriodEnd.Format(DateLayout),
		Alarm:       g.Alarm,
	}
}

// seedSelection — состояние редактора, посеянное из текущей группы задач.
func seedSelection(card *TaskRow) dialog.Selection {
	coef := card.Coef
	sel := dialog.NewSelection(dialog.ModeFlex)
	sel.List = []int64{card.WarehouseID}
	sel.SelectedList = []dialog.WarehouseRef{{ID: card.WarehouseID, Name: card.Name}}
	sel.BoxTypes = append([]string(nil), card.Boxes...)
	sel.Coef = &coef
	sel.PeriodStart = card.Start
	sel.PeriodEnd = card.End
	return sel
}

// cardArgs — аргументы текстовых шаблонов карточки. Метки упаковки
// локализует транспорт, сюда идут сырые значения.
func cardArgs(card *TaskRow) []string {
	return []string{
		"warehouse", card.Name,
		"coef", strconv.Itoa(card.Coef),
		"start", card.Start,
		"end", card.End,
	}
}
