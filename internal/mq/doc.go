// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация интеграционных событий
//
// Типы сообщений:
//   - case.created     — создан тест-кейс
//   - case.updated     — изменён тест-кейс (метаданные или шаги)
//   - case.deleted     — удалён тест-кейс
//   - case.reordered   — изменён порядок выполнения кейсов
//   - order.rebalanced — ключи порядка переписаны в плотные целые
//
// Exchanges:
//   - caseflow.cases    — события жизненного цикла тест-кейсов
//   - caseflow.ordering — события обслуживания порядка выполнения
//
// Публикация событий — best-effort: ошибки публикации логируются,
// но не откатывают уже зафиксированные изменения в БД.
package mq
