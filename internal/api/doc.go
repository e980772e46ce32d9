// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go            — Handler с DI (репозитории, composer, publisher, logger)
//   - routes.go             — регистрация маршрутов
//   - middleware.go         — middleware (logging, recovery)
//   - response.go           — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                — Data Transfer Objects (request/response)
//   - case_handler.go       — обработчики для /cases
//   - sharedstep_handler.go — обработчики для /shared-steps
//   - definitions_handler.go — каталог действий и проверок (/definitions)
//
// API предоставляет REST endpoints для управления тест-кейсами,
// shared steps и порядком выполнения. Аутентификации здесь нет:
// идентификатор вызывающего приходит в заголовке X-Actor-ID,
// разрешённый вышестоящим слоем.
package api
