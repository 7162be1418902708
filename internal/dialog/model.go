package dialog

// Slot — независимый «карман» состояния мастера. Новый мастер и
// редактирование существующей задачи живут в разных карманах и не
// затирают друг друга.
type Slot string

const (
	SlotSetup  Slot = "setup_task"
	SlotUpdate Slot = "update_task"
)

// Mode задаёт дисциплину выбора складов.
type Mode string

const (
	// ModeFlex — одиночный склад, выбор нового заменяет прежний.
	ModeFlex Mode = "flex"
	// ModeMass — мультивыбор, склад добавляется/убирается тумблером.
	ModeMass Mode = "mass"
)

type WarehouseRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Snapshot — значения «до правки», снятые при входе на шаг. По нему
// шаг понимает, что выбор реально изменился, и только тогда показывает
// кнопку подтверждения.
type Snapshot struct {
	BoxTypes    []string `json:"box_types,omitempty"`
	Coef        *int     `json:"coef,omitempty"`
	PeriodStart string   `json:"period_start,omitempty"`
	PeriodEnd   string   `json:"period_end,omitempty"`
}

// Selection — состояние одного незавершённого мастера. Хранится в
// wizard_sessions как jsonb, ключ — (chat_id, slot).
type Selection struct {
	CurrentPage     int            `json:"current_page"`
	List            []int64        `json:"list"`
	SelectedList    []WarehouseRef `json:"selected_list"`
	BoxTypes        []string       `json:"box_type"`
	Coef            *int           `json:"coefs,omitempty"`
	PeriodStart     string         `json:"period_start,omitempty"`
	PeriodEnd       string         `json:"period_end,omitempty"`
	Mode            Mode           `json:"mode"`
	ExistingTaskIDs []int64        `json:"existing_tasks_ids,omitempty"`
	Default         Snapshot       `json:"default"`
}

// Patch — частичное обновление Selection. Поле nil означает «не трогать»;
// Clear-флаги нужны там, где валидное новое значение — пустота.
type Patch struct {
	CurrentPage     *int
	List            []int64
	SelectedList    []WarehouseRef
	BoxTypes        []string
	Coef            *int
	ClearCoef       bool
	PeriodStart     *string
	PeriodEnd       *string
	Mode            *Mode
	ExistingTaskIDs []int64
	Default         *Snapshot
}

// Apply возвращает новое состояние с наложенным патчем. Исходное
// состояние не изменяется: все step-хендлеры мутируют Selection только
// через Apply, поэтому переходы легко логировать и воспроизводить.
func (s Selection) Apply(p Patch) Selection {
	out := s.Clone()
	if p.CurrentPage != nil {
		out.CurrentPage = *p.CurrentPage
	}
	if p.List != nil {
		out.List = append([]int64(nil), p.List...)
	}
	if p.SelectedList != nil {
		out.SelectedList = append([]WarehouseRef(nil), p.SelectedList...)
	}
	if p.BoxTypes != nil {
		out.BoxTypes = append([]string(nil), p.BoxTypes...)
	}
	if p.ClearCoef {
		out.Coef = nil
	} else if p.Coef != nil {
		c := *p.Coef
		out.Coef = &c
	}
	if p.PeriodStart != nil {
		out.PeriodStart = *p.PeriodStart
	}
	if p.PeriodEnd != nil {
		out.PeriodEnd = *p.PeriodEnd
	}
	if p.Mode != nil {
		out.Mode = *p.Mode
	}
	if p.ExistingTaskIDs != nil {
		out.ExistingTaskIDs = append([]int64(nil), p.ExistingTaskIDs...)
	}
	if p.Default != nil {
		out.Default = cloneSnapshot(*p.Default)
	}
	return out
}

// Clone — глубокая копия (слайсы и указатели не разделяются).
func (s Selection) Clone() Selection {
	out := s
	out.List = append([]int64(nil), s.List...)
	out.SelectedList = append([]WarehouseRef(nil), s.SelectedList...)
	out.BoxTypes = append([]string(nil), s.BoxTypes...)
	out.ExistingTaskIDs = append([]int64(nil), s.ExistingTaskIDs...)
	if s.Coef != nil {
		c := *s.Coef
		out.Coef = &c
	}
	out.Default = cloneSnapshot(s.Default)
	return out
}

func cloneSnapshot(d Snapshot) Snapshot {
	out := d
	out.BoxTypes = append([]string(nil), d.BoxTypes...)
	if d.Coef != nil {
		c := *d.Coef
		out.Coef = &c
	}
	return out
}

// NewSelection — пустое состояние для свежего мастера в заданном режиме.
func NewSelection(mode Mode) Selection {
	return Selection{
		List:         []int64{},
		SelectedList: []WarehouseRef{},
		BoxTypes:     []string{},
		Mode:         mode,
	}
}

// Selected сообщает, отмечен ли склад в авторитетном наборе.
func (s Selection) Selected(id int64) bool {
	for _, v := range s.List {
		if v == id {
			return true
		}
	}
	return false
}

// HasExistingTask сообщает, есть ли у пользователя активная задача по складу.
func (s Selection) HasExistingTask(id int64) bool {
	for _, v := range s.ExistingTaskIDs {
		if v == id {
			return true
		}
	}
	return false
}
