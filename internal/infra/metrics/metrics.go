package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallbacksTotal считает обработанные callback-действия по префиксу.
	CallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_callbacks_total",
		Help: "Handled callback queries by action prefix.",
	}, []string{"action"})

	// ValidationRejects — отклонённые пользовательские вводы (даты, коэффициенты и т.п.).
	ValidationRejects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_validation_rejects_total",
		Help: "User inputs rejected by wizard validation.",
	})

	// TasksMaterialized — сколько строк задач записано материализатором.
	TasksMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_tasks_materialized_total",
		Help: "Task rows written by the materializer.",
	})

	// HandlerErrors — ошибки репозитория/транспорта, показанные пользователю как generic error.
	HandlerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_handler_errors_total",
		Help: "Handler failures converted to the generic error response.",
	})
)
