package wizard

import (
	"context"
	"strconv"
	"time"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
	"github.com/mkravets/wb-slots-bot/internal/infra/metrics"
)

// materializeSetup разворачивает завершённый мастер в декартово
// произведение склады × упаковки × коэффициенты 0..max × дни и пишет
// его одной транзакцией. Сессия мастера после записи очищается.
func (w *Wizard) materializeSetup(ctx context.Context, req Request, sel dialog.Selection) (Response, error) {
	boxIDs, maxCoef, days, err := materializeInput(sel)
	if err != nil {
		return Response{}, err
	}
	n, err := w.tasks.CreateBulk(ctx, req.UserID, sel.List, boxIDs, maxCoef, days)
	if err != nil {
		return Response{}, err
	}
	metrics.TasksMaterialized.Add(float64(n))
	w.log.Info("tasks materialized",
		"user_id", req.UserID,
		"warehouses", len(sel.List),
		"rows", n,
	)
	if err := w.sessions.Clear(ctx, req.ChatID, dialog.SlotSetup); err != nil {
		return Response{}, err
	}
	return Response{
		Screen:   ScreenDone,
		TextKey:  "task_created",
		TextArgs: []string{"count", strconv.FormatInt(n, 10)},
	}, nil
}

// commitUpdate фиксирует правку существующей группы задач: старые
// строки склада удаляются и кросс-произведение генерируется заново в
// одной транзакции.
func (w *Wizard) commitUpdate(ctx context.Context, req Request, sel dialog.Selection) (Response, error) {
	if len(sel.List) == 0 {
		return Response{}, ErrStateMissing
	}
	wid := sel.List[0]
	boxIDs, maxCoef, days, err := materializeInput(sel)
	if err != nil {
		return Response{}, err
	}
	n, err := w.tasks.ReplaceForWarehouse(ctx, req.UserID, wid, boxIDs, maxCoef, days)
	if err != nil {
		return Response{}, err
	}
	metrics.TasksMaterialized.Add(float64(n))
	w.log.Info("task group replaced",
		"user_id", req.UserID,
		"warehouse_id", wid,
		"rows", n,
	)
	if err := w.sessions.Clear(ctx, req.ChatID, dialog.SlotUpdate); err != nil {
		return Response{}, err
	}

	name := ""
	if len(sel.SelectedList) > 0 {
		name = sel.SelectedList[0].Name
	}
	total, err := w.tasks.CountWarehouses(ctx, req.UserID)
	if err != nil {
		return Response{}, err
	}
	resp, err := w.editListPage(ctx, req.UserID, 0)
	if err != nil {
		return Response{}, err
	}
	resp.TextKey = "task_updated"
	resp.TextArgs = []string{"warehouse", name, "count", strconv.Itoa(total)}
	return resp, nil
}

// materializeInput валидирует состояние перед генерацией. Все
// предусловия проверяются здесь, чтобы в хранилище не утекали
// полузаполненные мастера (в том числе незаданный коэффициент).
func materializeInput(sel dialog.Selection) (boxIDs []int, maxCoef int, days []time.Time, err error) {
	if len(sel.List) == 0 {
		return nil, 0, nil, invalid(errNothingSelected)
	}
	if len(sel.BoxTypes) == 0 {
		return nil, 0, nil, invalid(errNoBoxSelected)
	}
	if sel.Coef == nil {
		return nil, 0, nil, invalid(errNoCoefSelected)
	}
	if sel.PeriodStart == "" || sel.PeriodEnd == "" {
		return nil, 0, nil, invalid(errNoDateSelected)
	}
	start, perr := time.Parse(DateLayout, sel.PeriodStart)
	if perr != nil {
		return nil, 0, nil, invalid(errInvalidDate)
	}
	end, perr := time.Parse(DateLayout, sel.PeriodEnd)
	if perr != nil {
		return nil, 0, nil, invalid(errInvalidDate)
	}
	if end.Before(start) {
		return nil, 0, nil, invalid(errEndBeforeStart)
	}
	for _, code := range sel.BoxTypes {
		id, ok := BoxTypeID(code)
		if !ok {
			return nil, 0, nil, invalid(errInvalidBoxType)
		}
		boxIDs = append(boxIDs, id)
	}
	return boxIDs, *sel.Coef, DaysInRange(start, end), nil
}

// cardFromSelection собирает карточку задачи из состояния редактора.
func cardFromSelection(sel dialog.Selection) *TaskRow {
	card := &TaskRow{
		Boxes: append([]string(nil), sel.BoxTypes...),
		Start: sel.PeriodStart,
		End:   sel.PeriodEnd,
	}
	if len(sel.List) > 0 {
		card.WarehouseID = sel.List[0]
	}
	if len(sel.SelectedList) > 0 {
		card.Name = sel.SelectedList[0].Name
	}
	if sel.Coef != nil {
		card.Coef = *sel.Coef
	}
	return card
}
