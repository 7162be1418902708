// Package wizard — ядро бота: конечный автомат многошаговой настройки
// задач. Разбирает нажатия кнопок, двигает состояние сессии и отдаёт
// транспорту view-модель следующего экрана. Telegram-специфика (отправка
// сообщений, сборка клавиатур) живёт уровнем выше, в internal/bot.
package wizard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
	"github.com/mkravets/wb-slots-bot/internal/domain/catalog"
	"github.com/mkravets/wb-slots-bot/internal/domain/tasks"
	"github.com/mkravets/wb-slots-bot/internal/infra/metrics"
)

// Catalog — справочник складов.
type Catalog interface {
	Page(ctx context.Context, limit, offset int) ([]catalog.Warehouse, int, error)
	ByIDs(ctx context.Context, ids []int64) ([]catalog.Warehouse, error)
}

// Tasks — хранилище слот-задач.
type Tasks interface {
	CreateBulk(ctx context.Context, userID int64, warehouseIDs []int64, boxTypeIDs []int, maxCoef int, days []time.Time) (int64, error)
	ReplaceForWarehouse(ctx context.Context, userID, warehouseID int64, boxTypeIDs []int, maxCoef int, days []time.Time) (int64, error)
	UserWarehouseIDs(ctx context.Context, userID int64) ([]int64, error)
	CountWarehouses(ctx context.Context, userID int64) (int, error)
	GroupsByWarehouse(ctx context.Context, userID int64, warehouseIDs []int64, limit, offset int) ([]tasks.Group, error)
	WarehousesWithAlarm(ctx context.Context, userID int64) ([]tasks.AlarmState, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	DeleteByUserAndWarehouse(ctx context.Context, userID, warehouseID int64) (int64, error)
	ToggleAlarm(ctx context.Context, userID, warehouseID int64) (int64, error)
	SetAlarmAll(ctx context.Context, userID int64, on bool) (int64, error)
}

// Sessions — хранилище состояния незавершённых мастеров.
type Sessions interface {
	Get(ctx context.Context, chatID int64, slot dialog.Slot) (*dialog.Selection, error)
	Set(ctx context.Context, chatID int64, slot dialog.Slot, s dialog.Selection) error
	Clear(ctx context.Context, chatID int64, slot dialog.Slot) error
}

// Request — одно действие пользователя.
type Request struct {
	UserID int64
	ChatID int64
	Action Action
}

type Wizard struct {
	catalog  Catalog
	tasks    Tasks
	sessions Sessions
	log      *slog.Logger
	pageSize int

	// now подменяется в тестах, календарь и валидация дат считают
	// «сегодня» через него.
	now func() time.Time
}

func New(c Catalog, t Tasks, s Sessions, log *slog.Logger) *Wizard {
	return &Wizard{
		catalog:  c,
		tasks:    t,
		sessions: s,
		log:      log,
		pageSize: defaultPageSize,
		now:      time.Now,
	}
}

// Handle выполняет один шаг. Валидационные ошибки гасятся здесь же и
// превращаются во всплывашку; наружу уходят только ошибки хранилища.
func (w *Wizard) Handle(ctx context.Context, req Request) (Response, error) {
	resp, err := w.dispatch(ctx, req)
	if err == nil {
		return resp, nil
	}
	if ve, ok := AsValidation(err); ok {
		metrics.ValidationRejects.Inc()
		w.log.Debug("validation reject",
			slog.Int64("user_id", req.UserID),
			slog.String("key", ve.Key),
		)
		return popup(ve.Key, false), nil
	}
	if errors.Is(err, ErrStateMissing) {
		w.log.Warn("wizard state missing",
			slog.Int64("user_id", req.UserID),
			slog.Int("kind", int(req.Action.Kind)),
		)
		return Response{Screen: ScreenMain, TextKey: "error.state_missing"}, nil
	}
	return Response{}, err
}

func (w *Wizard) dispatch(ctx context.Context, req Request) (Response, error) {
	a := req.Action
	switch a.Kind {
	case KindNoop:
		return Response{Screen: ScreenNone}, nil
	case KindMainMenu:
		return Response{Screen: ScreenMain, TextKey: "main_menu"}, nil
	case KindRules:
		return Response{Screen: ScreenRules, TextKey: "rules"}, nil
	case KindCreateTask:
		return w.createTask(ctx, req)
	case KindModeChoice:
		return Response{Screen: ScreenModeChoice, TextKey: "choose_mode"}, nil

	case KindEnterPicker:
		return w.enterPicker(ctx, req)
	case KindPickerPage:
		return w.pickerPage(ctx, req)
	case KindPickWarehouse:
		return w.pickWarehouse(ctx, req)
	case KindIgnoreWarehouse:
		return popup(errTaskExists, false), nil
	case KindConfirmWarehouses:
		return w.confirmWarehouses(ctx, req)

	case KindToggleBox:
		return w.toggleBox(ctx, req)
	case KindConfirmBoxes:
		return w.confirmBoxes(ctx, req)
	case KindPickCoef:
		return w.pickCoef(ctx, req)
	case KindConfirmCoef:
		return w.confirmCoef(ctx, req)

	case KindPeriodShortcut:
		return w.periodShortcut(ctx, req)
	case KindOpenCalendar:
		return w.openCalendar(ctx, req)
	case KindMonthNav:
		return w.monthNav(ctx, req)
	case KindPickDay:
		return w.pickDay(ctx, req)
	case KindConfirmRange:
		return w.confirmRange(ctx, req)

	case KindMyTasks:
		return w.myTasks(ctx, req)
	case KindEditList:
		return w.editList(ctx, req)
	case KindEditCard:
		return w.editCard(ctx, req)
	case KindEditParam:
		return w.editParam(ctx, req)
	case KindDeleteAllAsk:
		return Response{Screen: ScreenDeleteAllAsk, TextKey: "confirm_delete_all"}, nil
	case KindDeleteAll:
		return w.deleteAll(ctx, req)
	case KindDeleteOneAsk:
		return w.deleteOneAsk(ctx, req)
	case KindDeleteOne:
		return w.deleteOne(ctx, req)

	case KindAlarmMenu:
		return w.alarmMenu(ctx, req, 0)
	case KindAlarmPage:
		return w.alarmMenu(ctx, req, a.Page)
	case KindAlarmToggle:
		return w.alarmToggle(ctx, req)
	case KindAlarmAll:
		return w.alarmAll(ctx, req)

	case KindExport:
		return w.export(ctx, req)
	}
	return Response{Screen: ScreenNone}, nil
}

// createTask — вход в создание задач. Если задачи уже есть, сперва
// предлагаем выбор: новый список или добавить к существующему.
func (w *Wizard) createTask(ctx context.Context, req Request) (Response, error) {
	n, err := w.tasks.CountWarehouses(ctx, req.UserID)
	if err != nil {
		return Response{}, err
	}
	if n > 0 {
		return Response{Screen: ScreenAppendChoice, TextKey: "have_tasks"}, nil
	}
	return Response{Screen: ScreenModeChoice, TextKey: "choose_mode"}, nil
}

// session возвращает состояние слота или ErrStateMissing.
func (w *Wizard) session(ctx context.Context, chatID int64, slot dialog.Slot) (dialog.Selection, error) {
	sel, err := w.sessions.Get(ctx, chatID, slot)
	if err != nil {
		return dialog.Selection{}, err
	}
	if sel == nil {
		return dialog.Selection{}, ErrStateMissing
	}
	return *sel, nil
}
