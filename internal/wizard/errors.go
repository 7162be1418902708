package wizard

import "errors"

// ValidationError — ввод пользователя вне домена шага (неизвестный тип
// короба, коэффициент вне диапазона, невозможная дата). Шаг показывает
// всплывашку с локализованным текстом по Key и перерисовывает себя;
// состояние мастера не портится.
type ValidationError struct {
	// Key — ключ словаря lang, например "error.invalid_date".
	Key string
}

func (e *ValidationError) Error() string { return "validation: " + e.Key }

func invalid(key string) *ValidationError { return &ValidationError{Key: key} }

// Ключи валидационных ошибок. Совпадают с ключами локали.
const (
	errInvalidDate     = "error.invalid_date"
	errInvalidYear     = "error.invalid_year"
	errEndBeforeStart  = "error.end_before_start"
	errAlreadySelected = "error.already_selected"
	errInvalidBoxType  = "error.invalid_box_type"
	errInvalidCoef     = "error.invalid_coefficient"
	errNothingSelected = "error.nothing_selected"
	errNoBoxSelected   = "error.no_box_selected"
	errNoCoefSelected  = "error.no_coef_selected"
	errNoDateSelected  = "error.no_date_selected"
	errNoChanges       = "error.no_changes"
	errTaskExists      = "error.task_exists"
	errTaskMissing     = "error.task_missing"
)

// ErrStateMissing — шаг вызван без состояния, которое должен был
// оставить предыдущий шаг (протухшая сессия, перезапуск бота).
// Пользователю отвечаем предложением начать заново.
var ErrStateMissing = errors.New("wizard: session state missing")

// AsValidation возвращает ValidationError, если err им является.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
