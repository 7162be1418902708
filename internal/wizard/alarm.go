package wizard

import "context"

// alarmMenu — постраничный список складов с тумблерами уведомлений.
func (w *Wizard) alarmMenu(ctx context.Context, req Request, page int) (Response, error) {
	resp, err := w.alarmPage(ctx, req.UserID, page)
	if err != nil {
		return Response{}, err
	}
	if page > 0 {
		resp.EditMode = EditKeyboard
	}
	return resp, nil
}

func (w *Wizard) alarmToggle(ctx context.Context, req Request) (Response, error) {
	n, err := w.tasks.ToggleAlarm(ctx, req.UserID, req.Action.WarehouseID)
	if err != nil {
		return Response{}, err
	}
	if n == 0 {
		// клавиатура устарела: задач по складу больше нет. Перерисовываем
		// список целиком и объясняем всплывашкой.
		resp, err := w.alarmPage(ctx, req.UserID, 0)
		if err != nil {
			return Response{}, err
		}
		resp.PopupKey = errTaskMissing
		return resp, nil
	}
	resp, err := w.alarmPage(ctx, req.UserID, req.Action.Page)
	if err != nil {
		return Response{}, err
	}
	resp.EditMode = EditKeyboard
	return resp, nil
}

func (w *Wizard) alarmAll(ctx context.Context, req Request) (Response, error) {
	if _, err := w.tasks.SetAlarmAll(ctx, req.UserID, req.Action.On); err != nil {
		return Response{}, err
	}
	resp, err := w.alarmPage(ctx, req.UserID, 0)
	if err != nil {
		return Response{}, err
	}
	resp.EditMode = EditKeyboard
	if req.Action.On {
		resp.PopupKey = "alarm_all_on"
	} else {
		resp.PopupKey = "alarm_all_off"
	}
	return resp, nil
}

func (w *Wizard) alarmPage(ctx context.Context, userID int64, page int) (Response, error) {
	states, err := w.tasks.WarehousesWithAlarm(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if len(states) == 0 {
		return Response{Screen: ScreenEmpty, TextKey: "no_task"}, nil
	}

	total := pages(len(states), w.pageSize)
	if page >= total {
		page = total - 1
	}
	from := page * w.pageSize
	to := from + w.pageSize
	if to > len(states) {
		to = len(states)
	}
	window := states[from:to]

	ids := make([]int64, 0, len(window))
	for _, st := range window {
		ids = append(ids, st.WarehouseID)
	}
	names, err := w.warehouseNames(ctx, ids)
	if err != nil {
		return Response{}, err
	}
	rows := make([]TaskRow, 0, len(window))
	for _, st := range window {
		rows = append(rows, TaskRow{
			WarehouseID: st.WarehouseID,
			Name:        names[st.WarehouseID],
			Alarm:       st.Alarm,
		})
	}
	return Response{
		Screen:  ScreenAlarm,
		TextKey: "alarm_menu",
		List: &ListView{
			Page:       page,
			TotalPages: total,
			Rows:       rows,
		},
	}, nil
}
