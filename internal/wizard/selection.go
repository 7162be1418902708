package wizard

import (
	"github.com/mkravets/wb-slots-bot/internal/dialog"
	"github.com/mkravets/wb-slots-bot/internal/domain/catalog"
)

// ToggleSelection идемпотентно переключает элемент в наборе: два
// одинаковых нажатия возвращают исходный набор. single=true — выбор
// нового элемента заменяет весь набор (одиночный режим). Нулевой key —
// no-op, но копия всё равно возвращается: вход никогда не мутируется.
func ToggleSelection[T comparable](items []T, key T, single bool) []T {
	var zero T
	if key == zero {
		return append([]T(nil), items...)
	}
	idx := -1
	for i, v := range items {
		if v == key {
			idx = i
			break
		}
	}
	if idx >= 0 {
		out := make([]T, 0, len(items)-1)
		out = append(out, items[:idx]...)
		return append(out, items[idx+1:]...)
	}
	if single {
		return []T{key}
	}
	out := append([]T(nil), items...)
	return append(out, key)
}

// ToggleWarehouse — переключение склада с учётом режима: FLEX держит
// не больше одного склада, MASS копит набор.
func ToggleWarehouse(items []int64, id int64, mode dialog.Mode) []int64 {
	return ToggleSelection(items, id, mode == dialog.ModeFlex)
}

// SyncSelected пересобирает отображаемый список выбранных складов:
// строки каталога фильтруются по авторитетному набору id, порядок —
// каталожный, дубли схлопываются. Каталог здесь — видимая страница,
// перед которой вызывающий подклеивает ранее выбранные склады, чтобы
// выбор не терялся при листании.
func SyncSelected(rows []catalog.Warehouse, selected []int64) []dialog.WarehouseRef {
	want := make(map[int64]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}
	seen := make(map[int64]bool, len(rows))
	out := make([]dialog.WarehouseRef, 0, len(selected))
	for _, row := range rows {
		if seen[row.ID] || !want[row.ID] {
			seen[row.ID] = true
			continue
		}
		seen[row.ID] = true
		out = append(out, dialog.WarehouseRef{ID: row.ID, Name: row.Name})
	}
	return out
}

// mergeCatalog подклеивает ранее выбранные склады перед видимой
// страницей каталога, с дедупликацией по id.
func mergeCatalog(prev []dialog.WarehouseRef, page []catalog.Warehouse) []catalog.Warehouse {
	out := make([]catalog.Warehouse, 0, len(prev)+len(page))
	seen := make(map[int64]bool, len(prev)+len(page))
	for _, ref := range prev {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		out = append(out, catalog.Warehouse{ID: ref.ID, Name: ref.Name})
	}
	for _, row := range page {
		if seen[row.ID] {
			continue
		}
		seen[row.ID] = true
		out = append(out, row)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
	}
	return true
}
