// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//
// Prometheus-метрики объявляются в бинарях через promauto
// и экспортируются на /metrics endpoint. Все сервисы используют
// единый формат логирования (LOG_LEVEL, LOG_FORMAT).
package telemetry
