package ordering

import "sort"

// Item — элемент с ключом порядка выполнения.
type Item struct {
	// ID — идентификатор элемента (код тест-кейса).
	ID string

	// Key — ключ порядка.
	Key float64
}

// Allocate вычисляет новые ключи для непрерывного блока перемещаемых
// элементов между двумя якорями. Любой из якорей может отсутствовать.
//
// Блок сначала сортируется по текущим ключам, чтобы сохранить его
// внутренний порядок. Ветви:
//   - оба якоря и next > prev: интервал делится на len+1 равных шагов,
//     i-й элемент блока получает i-ю точку деления
//   - только prev (или next <= prev — защитный fallback): целочисленные
//     приращения от prev вниз по списку (prev+1, prev+2, ...)
//   - только next: целочисленные декременты от next, отсчитанные от
//     конца блока, так что последний элемент получает next-1
//   - ни одного якоря: плотная последовательность 1..len
//
// Чистая арифметика; запись ключей — забота вызывающего.
func Allocate(prev, next *float64, moved []Item) []Item {
	if len(moved) == 0 {
		return nil
	}

	ordered := make([]Item, len(moved))
	copy(ordered, moved)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Key < ordered[j].Key
	})

	n := float64(len(ordered))

	switch {
	case prev != nil && next != nil && *next > *prev:
		// Равномерно внутри открытого интервала (prev, next)
		step := (*next - *prev) / (n + 1)
		for i := range ordered {
			ordered[i].Key = *prev + step*float64(i+1)
		}

	case prev != nil:
		// Известен только prev (или якоря некорректны): растём вниз
		for i := range ordered {
			ordered[i].Key = *prev + float64(i+1)
		}

	case next != nil:
		// Известен только next: растём вверх, последний элемент в next-1
		for i := range ordered {
			ordered[i].Key = *next - float64(len(ordered)-i)
		}

	default:
		// Контекста нет (в нормальной работе не случается)
		for i := range ordered {
			ordered[i].Key = float64(i + 1)
		}
	}

	return ordered
}

// Bisect возвращает ключ для дубликата элемента: середину между
// текущим ключом и ключом следующего элемента, либо current+1,
// если следующего нет. Частный случай деления интервала для блока
// из одного элемента.
func Bisect(current float64, next *float64) float64 {
	if next == nil {
		return current + 1
	}
	return (current + *next) / 2
}
