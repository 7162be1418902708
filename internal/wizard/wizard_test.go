package wizard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
	"github.com/mkravets/wb-slots-bot/internal/domain/catalog"
	"github.com/mkravets/wb-slots-bot/internal/domain/tasks"
)

/*** FAKES ***/

type fakeCatalog struct {
	rows []catalog.Warehouse
}

func (f *fakeCatalog) Page(_ context.Context, limit, offset int) ([]catalog.Warehouse, int, error) {
	total := len(f.rows)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return f.rows[offset:end], total, nil
}

func (f *fakeCatalog) ByIDs(_ context.Context, ids []int64) ([]catalog.Warehouse, error) {
	byID := map[int64]catalog.Warehouse{}
	for _, r := range f.rows {
		byID[r.ID] = r
	}
	var out []catalog.Warehouse
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

type bulkCall struct {
	warehouseIDs []int64
	boxTypeIDs   []int
	maxCoef      int
	days         []time.Time
}

type fakeTasks struct {
	existing []int64
	groups   []tasks.Group
	alarms   []tasks.AlarmState

	created  []bulkCall
	replaced map[int64]bulkCall
	deleted  []int64
	allGone  bool
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{replaced: map[int64]bulkCall{}}
}

func (f *fakeTasks) CreateBulk(_ context.Context, _ int64, whIDs []int64, boxIDs []int, maxCoef int, days []time.Time) (int64, error) {
	f.created = append(f.created, bulkCall{whIDs, boxIDs, maxCoef, days})
	return int64(len(whIDs) * len(boxIDs) * (maxCoef + 1) * len(days)), nil
}

func (f *fakeTasks) ReplaceForWarehouse(_ context.Context, _ int64, wid int64, boxIDs []int, maxCoef int, days []time.Time) (int64, error) {
	f.replaced[wid] = bulkCall{[]int64{wid}, boxIDs, maxCoef, days}
	return int64(len(boxIDs) * (maxCoef + 1) * len(days)), nil
}

func (f *fakeTasks) UserWarehouseIDs(_ context.Context, _ int64) ([]int64, error) {
	return f.existing, nil
}

func (f *fakeTasks) CountWarehouses(_ context.Context, _ int64) (int, error) {
	return len(f.groups), nil
}

func (f *fakeTasks) GroupsByWarehouse(_ context.Context, _ int64, whIDs []int64, limit, offset int) ([]tasks.Group, error) {
	var out []tasks.Group
	for _, g := range f.groups {
		if whIDs != nil && !containsID(whIDs, g.WarehouseID) {
			continue
		}
		out = append(out, g)
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeTasks) WarehousesWithAlarm(_ context.Context, _ int64) ([]tasks.AlarmState, error) {
	return f.alarms, nil
}

func (f *fakeTasks) DeleteByUser(_ context.Context, _ int64) (int64, error) {
	f.allGone = true
	return int64(len(f.groups)), nil
}

func (f *fakeTasks) DeleteByUserAndWarehouse(_ context.Context, _ int64, wid int64) (int64, error) {
	f.deleted = append(f.deleted, wid)
	return 1, nil
}

func (f *fakeTasks) ToggleAlarm(_ context.Context, _ int64, wid int64) (int64, error) {
	var n int64
	for i := range f.alarms {
		if f.alarms[i].WarehouseID == wid {
			f.alarms[i].Alarm = !f.alarms[i].Alarm
			n++
		}
	}
	return n, nil
}

func (f *fakeTasks) SetAlarmAll(_ context.Context, _ int64, on bool) (int64, error) {
	for i := range f.alarms {
		f.alarms[i].Alarm = on
	}
	return int64(len(f.alarms)), nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeSessions struct {
	store map[string]*dialog.Selection
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{store: map[string]*dialog.Selection{}}
}

func (f *fakeSessions) key(chatID int64, slot dialog.Slot) string {
	return fmt.Sprintf("%d/%s", chatID, slot)
}

func (f *fakeSessions) Get(_ context.Context, chatID int64, slot dialog.Slot) (*dialog.Selection, error) {
	s, ok := f.store[f.key(chatID, slot)]
	if !ok {
		return nil, nil
	}
	cp := s.Clone()
	return &cp, nil
}

func (f *fakeSessions) Set(_ context.Context, chatID int64, slot dialog.Slot, s dialog.Selection) error {
	cp := s.Clone()
	f.store[f.key(chatID, slot)] = &cp
	return nil
}

func (f *fakeSessions) Clear(_ context.Context, chatID int64, slot dialog.Slot) error {
	delete(f.store, f.key(chatID, slot))
	return nil
}

/*** HELPERS ***/

const (
	testUser = int64(42)
	testChat = int64(42)
)

func newTestWizard(c *fakeCatalog, ts *fakeTasks, ss *fakeSessions) *Wizard {
	w := New(c, ts, ss, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.now = func() time.Time { return day("2025-06-01") }
	return w
}

func handle(t *testing.T, w *Wizard, data string) Response {
	t.Helper()
	a, ok := Parse(data)
	require.True(t, ok, "callback %q не разобрался", data)
	resp, err := w.Handle(context.Background(), Request{UserID: testUser, ChatID: testChat, Action: a})
	require.NoError(t, err)
	return resp
}

/*** SCENARIOS ***/

func TestMassFlow_EndToEnd(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{
		{ID: 101, Name: "Казань"},
		{ID: 202, Name: "Тула"},
		{ID: 303, Name: "Коледино"},
	}}
	ts := newFakeTasks()
	ss := newFakeSessions()
	w := newTestWizard(cat, ts, ss)

	resp := handle(t, w, "task_mode_mass")
	require.Equal(t, ScreenPicker, resp.Screen)
	assert.Len(t, resp.Picker.Items, 3)

	handle(t, w, "task_mode_mass_id101")
	resp = handle(t, w, "task_mode_mass_id202")
	assert.True(t, resp.Picker.CanConfirm)

	// двойное нажатие возвращает набор к исходному
	handle(t, w, "task_mode_mass_id303")
	handle(t, w, "task_mode_mass_id303")
	sel, err := ss.Get(context.Background(), testChat, dialog.SlotSetup)
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 202}, sel.List)
	assert.Len(t, sel.SelectedList, 2)

	resp = handle(t, w, "wh_confirm")
	require.Equal(t, ScreenBoxes, resp.Screen)

	handle(t, w, "box_type_mono")
	resp = handle(t, w, "box_type_pan")
	assert.True(t, resp.Boxes.CanConfirm)

	resp = handle(t, w, "box_type_confirm")
	require.Equal(t, ScreenCoef, resp.Screen)

	resp = handle(t, w, "coefs_2")
	assert.True(t, resp.Coef.CanConfirm)
	resp = handle(t, w, "coefs_confirm")
	require.Equal(t, ScreenPeriod, resp.Screen)

	resp = handle(t, w, "select_diapason")
	require.Equal(t, ScreenCalendar, resp.Screen)
	assert.Equal(t, 2025, resp.Calendar.Year)
	assert.Equal(t, 6, resp.Calendar.Month)

	resp = handle(t, w, "select_day_2025_6_1")
	assert.Equal(t, "2025-06-01", resp.Calendar.Start)
	resp = handle(t, w, "select_day_2025_6_2")
	assert.Equal(t, "2025-06-02", resp.Calendar.End)
	assert.True(t, resp.Calendar.CanConfirm)

	resp = handle(t, w, "diapason_confirm")
	require.Equal(t, ScreenDone, resp.Screen)
	// 2 склада × 2 упаковки × коэффициенты {0,1,2} × 2 дня
	assert.Equal(t, []string{"count", "24"}, resp.TextArgs)

	require.Len(t, ts.created, 1)
	call := ts.created[0]
	assert.Equal(t, []int64{101, 202}, call.warehouseIDs)
	assert.ElementsMatch(t, []int{5, 2}, call.boxTypeIDs)
	assert.Equal(t, 2, call.maxCoef)
	assert.Len(t, call.days, 2)

	// сессия мастера очищена
	sel, err = ss.Get(context.Background(), testChat, dialog.SlotSetup)
	require.NoError(t, err)
	assert.Nil(t, sel)
}

func TestFlexPick_ReplacesPrior(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}, {ID: 202, Name: "Б"}}}
	w := newTestWizard(cat, newFakeTasks(), newFakeSessions())

	handle(t, w, "task_mode_flex")
	handle(t, w, "task_mode_flex_id101")
	resp := handle(t, w, "task_mode_flex_id202")

	var picked []int64
	for _, it := range resp.Picker.Items {
		if it.Selected {
			picked = append(picked, it.ID)
		}
	}
	assert.Equal(t, []int64{202}, picked)
}

func TestPicker_ExistingWarehouseBlocked(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}}}
	ts := newFakeTasks()
	ts.existing = []int64{101}
	ss := newFakeSessions()
	w := newTestWizard(cat, ts, ss)

	resp := handle(t, w, "task_mode_mass")
	require.Len(t, resp.Picker.Items, 1)
	assert.True(t, resp.Picker.Items[0].Existing)

	// инертная кнопка отвечает всплывашкой
	resp = handle(t, w, "ignore_wh_101")
	assert.Equal(t, ScreenNone, resp.Screen)
	assert.Equal(t, errTaskExists, resp.PopupKey)

	// прямое нажатие (подделанный callback) тоже блокируется
	resp = handle(t, w, "task_mode_mass_id101")
	assert.Equal(t, errTaskExists, resp.PopupKey)
	sel, err := ss.Get(context.Background(), testChat, dialog.SlotSetup)
	require.NoError(t, err)
	assert.Empty(t, sel.List)
}

func TestConfirmWarehouses_EmptySelection(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}}}
	w := newTestWizard(cat, newFakeTasks(), newFakeSessions())

	handle(t, w, "task_mode_mass")
	resp := handle(t, w, "wh_confirm")
	assert.Equal(t, ScreenNone, resp.Screen)
	assert.Equal(t, errNothingSelected, resp.PopupKey)
}

func TestCoef_ToggleToNone(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}}}
	w := newTestWizard(cat, newFakeTasks(), newFakeSessions())

	handle(t, w, "task_mode_flex")
	handle(t, w, "task_mode_flex_id101")
	handle(t, w, "wh_confirm")
	handle(t, w, "box_type_mono")
	handle(t, w, "box_type_confirm")

	resp := handle(t, w, "coefs_5")
	require.NotNil(t, resp.Coef.Selected)
	assert.Equal(t, 5, *resp.Coef.Selected)

	resp = handle(t, w, "coefs_5")
	assert.Nil(t, resp.Coef.Selected)
	assert.False(t, resp.Coef.CanConfirm)

	// подтверждение без значения не пускает дальше
	resp = handle(t, w, "coefs_confirm")
	assert.Equal(t, errNoCoefSelected, resp.PopupKey)
}

func TestShortcut_Week(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}}}
	ts := newFakeTasks()
	w := newTestWizard(cat, ts, newFakeSessions())

	handle(t, w, "task_mode_flex")
	handle(t, w, "task_mode_flex_id101")
	handle(t, w, "wh_confirm")
	handle(t, w, "box_type_safe")
	handle(t, w, "box_type_confirm")
	handle(t, w, "coefs_0")
	handle(t, w, "coefs_confirm")

	resp := handle(t, w, "select_date_week")
	require.Equal(t, ScreenDone, resp.Screen)
	require.Len(t, ts.created, 1)
	assert.Len(t, ts.created[0].days, 7)
	assert.Equal(t, []int{6}, ts.created[0].boxTypeIDs)
	assert.Equal(t, 0, ts.created[0].maxCoef)
}

func TestCalendar_PastDateRejected(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}}}
	w := newTestWizard(cat, newFakeTasks(), newFakeSessions())

	handle(t, w, "task_mode_flex")
	handle(t, w, "task_mode_flex_id101")
	handle(t, w, "wh_confirm")
	handle(t, w, "box_type_mono")
	handle(t, w, "box_type_confirm")
	handle(t, w, "coefs_1")
	handle(t, w, "coefs_confirm")
	handle(t, w, "select_diapason")

	resp := handle(t, w, "select_day_2025_5_31")
	assert.Equal(t, ScreenNone, resp.Screen)
	assert.Equal(t, errInvalidDate, resp.PopupKey)
}

func TestEditFlow_ChangeCoefRegenerates(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 507, Name: "Коледино"}}}
	ts := newFakeTasks()
	ts.groups = []tasks.Group{{
		WarehouseID: 507,
		BoxTypeIDs:  []int64{5},
		MaxCoef:     1,
		PeriodStart: day("2025-06-01"),
		PeriodEnd:   day("2025-06-02"),
		Alarm:       true,
	}}
	ss := newFakeSessions()
	w := newTestWizard(cat, ts, ss)

	resp := handle(t, w, "task_update_select_507")
	require.Equal(t, ScreenEditCard, resp.Screen)
	assert.Equal(t, "Коледино", resp.Card.Name)

	resp = handle(t, w, "task_update_coef_507")
	require.Equal(t, ScreenCoef, resp.Screen)
	require.NotNil(t, resp.Coef.Selected)
	assert.Equal(t, 1, *resp.Coef.Selected)
	assert.False(t, resp.Coef.CanConfirm, "до правки подтверждать нечего")

	resp = handle(t, w, "task_update_selcoef_3")
	assert.True(t, resp.Coef.CanConfirm)

	resp = handle(t, w, "task_update_selcoef_confirm")
	assert.Equal(t, "task_updated", resp.TextKey)

	call, ok := ts.replaced[507]
	require.True(t, ok, "группа должна быть перегенерирована, не пропатчена")
	assert.Equal(t, []int{5}, call.boxTypeIDs)
	assert.Equal(t, 3, call.maxCoef)
	assert.Len(t, call.days, 2)

	sel, err := ss.Get(context.Background(), testChat, dialog.SlotUpdate)
	require.NoError(t, err)
	assert.Nil(t, sel, "сессия редактора очищена после фиксации")
}

func TestEditFlow_NoChangesPopup(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 507, Name: "Коледино"}}}
	ts := newFakeTasks()
	ts.groups = []tasks.Group{{
		WarehouseID: 507,
		BoxTypeIDs:  []int64{5},
		MaxCoef:     1,
		PeriodStart: day("2025-06-01"),
		PeriodEnd:   day("2025-06-02"),
	}}
	w := newTestWizard(cat, ts, newFakeSessions())

	handle(t, w, "task_update_select_507")
	handle(t, w, "task_update_coef_507")
	resp := handle(t, w, "task_update_selcoef_confirm")
	assert.Equal(t, errNoChanges, resp.PopupKey)
	assert.Empty(t, ts.replaced)
}

func TestEditFlow_SamePeriodPopup(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 507, Name: "Коледино"}}}
	ts := newFakeTasks()
	ts.groups = []tasks.Group{{
		WarehouseID: 507,
		BoxTypeIDs:  []int64{5},
		MaxCoef:     1,
		PeriodStart: day("2025-06-01"),
		PeriodEnd:   day("2025-06-02"),
	}}
	w := newTestWizard(cat, ts, newFakeSessions())

	handle(t, w, "task_update_select_507")
	handle(t, w, "task_update_date_507")
	handle(t, w, "task_update_diapason")
	handle(t, w, "task_update_selday_2025_6_1")
	handle(t, w, "task_update_selday_2025_6_2")

	// тот же диапазон, что и до правки — перегенерации нет
	resp := handle(t, w, "task_update_seldiap_confirm")
	assert.Equal(t, errNoChanges, resp.PopupKey)
	assert.Empty(t, ts.replaced)

	// а сдвинутый диапазон фиксируется
	handle(t, w, "task_update_diapason")
	handle(t, w, "task_update_selday_2025_6_3")
	resp = handle(t, w, "task_update_seldiap_confirm")
	assert.Equal(t, "task_updated", resp.TextKey)
	call, ok := ts.replaced[507]
	require.True(t, ok)
	assert.Len(t, call.days, 1)
}

func TestDeleteFlow(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 507, Name: "Коледино"}}}
	ts := newFakeTasks()
	ts.groups = []tasks.Group{{
		WarehouseID: 507,
		BoxTypeIDs:  []int64{2},
		MaxCoef:     0,
		PeriodStart: day("2025-06-01"),
		PeriodEnd:   day("2025-06-01"),
	}}
	w := newTestWizard(cat, ts, newFakeSessions())

	resp := handle(t, w, "task_delete_id507")
	require.Equal(t, ScreenDeleteOneAsk, resp.Screen)

	resp = handle(t, w, "task_delete_yes_507")
	assert.Equal(t, []int64{507}, ts.deleted)
	assert.Equal(t, "task_deleted", resp.TextKey)

	resp = handle(t, w, "task_delete_confirm")
	require.Equal(t, ScreenDeleteAllAsk, resp.Screen)
	resp = handle(t, w, "task_delete_all")
	assert.True(t, ts.allGone)
	assert.Equal(t, ScreenMain, resp.Screen)
}

func TestAlarmFlow(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}, {ID: 202, Name: "Б"}}}
	ts := newFakeTasks()
	ts.alarms = []tasks.AlarmState{
		{WarehouseID: 101, Alarm: true},
		{WarehouseID: 202, Alarm: false},
	}
	w := newTestWizard(cat, ts, newFakeSessions())

	resp := handle(t, w, "alarm_setting")
	require.Equal(t, ScreenAlarm, resp.Screen)
	require.Len(t, resp.List.Rows, 2)

	resp = handle(t, w, "toggle_alarm_101_0")
	assert.False(t, resp.List.Rows[0].Alarm)

	resp = handle(t, w, "alarm_all_on")
	assert.Equal(t, "alarm_all_on", resp.PopupKey)
	assert.True(t, resp.List.Rows[1].Alarm)
}

func TestAlarmToggle_StaleKeyboard(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}}}
	ts := newFakeTasks()
	ts.alarms = []tasks.AlarmState{{WarehouseID: 101, Alarm: true}}
	w := newTestWizard(cat, ts, newFakeSessions())

	// кнопка склада, задачи которого уже удалены
	resp := handle(t, w, "toggle_alarm_999_0")
	assert.Equal(t, errTaskMissing, resp.PopupKey)
	require.Equal(t, ScreenAlarm, resp.Screen)
	require.Len(t, resp.List.Rows, 1)
	assert.True(t, resp.List.Rows[0].Alarm, "чужой склад не трогается")
}

func TestStateMissing_FallsBackToMain(t *testing.T) {
	cat := &fakeCatalog{rows: []catalog.Warehouse{{ID: 101, Name: "А"}}}
	w := newTestWizard(cat, newFakeTasks(), newFakeSessions())

	resp := handle(t, w, "box_type_confirm")
	assert.Equal(t, ScreenMain, resp.Screen)
	assert.Equal(t, "error.state_missing", resp.TextKey)
}

func TestMyTasks_Empty(t *testing.T) {
	cat := &fakeCatalog{}
	w := newTestWizard(cat, newFakeTasks(), newFakeSessions())

	resp := handle(t, w, "my_tasks")
	assert.Equal(t, ScreenEmpty, resp.Screen)
	assert.Equal(t, "no_task", resp.TextKey)
}

func TestPickerPagination_KeepsSelection(t *testing.T) {
	rows := make([]catalog.Warehouse, 0, 25)
	for i := 1; i <= 25; i++ {
		rows = append(rows, catalog.Warehouse{ID: int64(i), Name: fmt.Sprintf("Склад %d", i)})
	}
	cat := &fakeCatalog{rows: rows}
	ss := newFakeSessions()
	w := newTestWizard(cat, newFakeTasks(), ss)

	resp := handle(t, w, "task_mode_mass")
	assert.Equal(t, 3, resp.Picker.TotalPages)

	handle(t, w, "task_mode_mass_id3")
	resp = handle(t, w, "task_mode_mass_2")
	assert.Equal(t, 2, resp.Picker.Page)
	assert.True(t, resp.Picker.CanConfirm, "выбор с первой страницы переживает листание")

	sel, err := ss.Get(context.Background(), testChat, dialog.SlotSetup)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, sel.List)
	require.Len(t, sel.SelectedList, 1)
	assert.Equal(t, "Склад 3", sel.SelectedList[0].Name)
}
