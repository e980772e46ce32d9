// Package catalog содержит статический каталог определений шагов.
//
// Включает:
//   - catalog.go — таблицы действий, проверок и клавиш + функции поиска
//   - matrix.go  — матрица совместимости действие→проверки и
//     whitelist параметров для каждого действия
//
// Все таблицы неизменяемы и инициализируются на этапе компиляции.
// Каталог — чистые данные без состояния; он определяет, какие шаги
// вообще могут существовать.
package catalog
