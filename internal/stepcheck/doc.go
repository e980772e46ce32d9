// Package stepcheck валидирует шаги тест-кейсов и shared steps.
//
// Структура:
//   - validator.go — проверка шага против каталога: тип действия,
//     очистка параметров по whitelist, матрица совместимости проверок,
//     обязательные поля проверок, клавиши pressKey
//   - errors.go    — ошибки валидации
//
// Валидатор — чистая функция над входными данными и статическим
// каталогом, без побочных эффектов. Вызывается на всех путях записи
// шагов до обращения к хранилищу.
package stepcheck
