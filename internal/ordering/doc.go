// Package ordering реализует дробную индексацию порядка выполнения.
//
// Структура:
//   - allocator.go  — вычисление новых ключей при перемещении и
//     дублировании (чистая арифметика, без побочных эффектов)
//   - rebalancer.go — периодическая ренормализация ключей в плотную
//     последовательность 1, 2, 3, ... (паттерн Tick)
//   - schedule.go   — парсинг cron-выражения расписания ребалансировки
//
// Ключ порядка — double; точность исчерпывается после многих вставок
// в один и тот же интервал, ребалансировка её восстанавливает.
// Относительный порядок при ребалансировке сохраняется.
package ordering
