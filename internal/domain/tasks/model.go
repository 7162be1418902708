package tasks

import "time"

// Task — одна строка «следить за слотом»: конкретный склад, тип
// упаковки, коэффициент и дата. Мастер порождает их декартовым
// произведением; подсистема поиска слотов (вне этого репозитория)
// двигает state дальше "new".
type Task struct {
	ID          int64
	UserID      int64
	WarehouseID int64
	BoxTypeID   int
	Coefficient int
	State       string
	Alarm       int
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Group — свёртка задач одного склада для показа пользователю: набор
// типов упаковки, потолок коэффициента (max-coefficient-wins) и границы
// периода.
type Group struct {
	WarehouseID int64
	BoxTypeIDs  []int64
	MaxCoef     int
	PeriodStart time.Time
	PeriodEnd   time.Time
	Alarm       bool
}

// AlarmState — склад и текущий флаг уведомлений.
type AlarmState struct {
	WarehouseID int64
	Alarm       bool
}

const StateNew = "new"
