package repo

import (
	"errors"
	"fmt"
)

// Общие ошибки репозиториев.
var (
	// ErrNotFound — запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName — имя уже занято (сравнение без учёта регистра).
	ErrDuplicateName = errors.New("name already exists")

	// ErrReferenced — запись нельзя удалить, на неё есть ссылки.
	ErrReferenced = errors.New("still referenced")
)

// ReferencedError — отказ в удалении shared step с количеством ссылок.
// Разворачивается в ErrReferenced.
type ReferencedError struct {
	// Count — число тест-кейсов, ссылающихся на запись.
	Count int64
}

// Error реализует интерфейс error.
func (e *ReferencedError) Error() string {
	return fmt.Sprintf("referenced by %d test case(s)", e.Count)
}

// Unwrap возвращает ErrReferenced для errors.Is.
func (e *ReferencedError) Unwrap() error {
	return ErrReferenced
}
