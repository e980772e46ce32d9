// Package compose собирает дерево шагов тест-кейса для путей чтения.
//
// Плоский упорядоченный список строк шагов превращается в двухуровневое
// дерево: обычные шаги становятся листьями, ссылки на shared steps
// разворачиваются в узлы со вложенным списком шагов-определений.
// Глубже двух уровней дерево не растёт: определения не ссылаются
// на другие shared steps.
//
// Загрузка определений идёт через узкий интерфейс Source и мемоизируется
// в пределах одного вызова: число обращений пропорционально числу
// различных shared steps, а не числу шагов.
package compose
