package catalog

import "time"

// Warehouse — справочная запись склада WB. ID — это business-id склада
// в терминах поставок (им же помечены кнопки id<N> в пикере), не
// суррогатный ключ таблицы.
type Warehouse struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
