package ordering

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultCronExpr — расписание ребалансировки по умолчанию: каждые 9 часов.
const DefaultCronExpr = "0 */9 * * *"

// cronParser — парсер cron-выражений (пять полей, без секунд).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseSchedule разбирает cron-выражение расписания ребалансировки.
// Пустая строка даёт расписание по умолчанию.
func ParseSchedule(expr string) (cron.Schedule, error) {
	if expr == "" {
		expr = DefaultCronExpr
	}

	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse rebalance cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// NextRun возвращает время следующего запуска по расписанию.
func NextRun(schedule cron.Schedule, from time.Time) time.Time {
	return schedule.Next(from)
}
