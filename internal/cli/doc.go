// Package cli реализует инструмент командной строки Caseflow.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Caseflow API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления тест-кейсами, shared steps
// и порядком выполнения.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Caseflow API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок. Идентификатор вызывающего передаётся
// в заголовке X-Actor-ID.
//
//	client := cli.NewClient("http://localhost:8080", "")
//	cases, err := client.ListCases()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: caseflow case list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - case: list, create, show, update, steps, delete, bulk-delete,
//     duplicate, reorder, rebalance
//   - shared-step: list, create, show, update, delete
//   - definitions: просмотр каталога шагов
//
// Каждая группа создаётся через фабричную функцию (NewCaseCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
