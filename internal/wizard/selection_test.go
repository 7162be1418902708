package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkravets/wb-slots-bot/internal/dialog"
	"github.com/mkravets/wb-slots-bot/internal/domain/catalog"
)

func TestToggleSelection_Idempotent(t *testing.T) {
	orig := []string{"mono", "pan"}

	once := ToggleSelection(orig, "safe", false)
	twice := ToggleSelection(once, "safe", false)

	assert.ElementsMatch(t, orig, twice)
	assert.Equal(t, []string{"mono", "pan"}, orig, "вход не должен мутироваться")
}

func TestToggleSelection_RemovesExisting(t *testing.T) {
	got := ToggleSelection([]int64{101, 202}, 101, false)
	assert.Equal(t, []int64{202}, got)
}

func TestToggleSelection_ZeroKeyIsNoop(t *testing.T) {
	orig := []int64{101}
	got := ToggleSelection(orig, 0, false)
	assert.Equal(t, orig, got)
	// копия, не тот же срез
	got = append(got, 999)
	assert.Equal(t, []int64{101}, orig)
}

func TestToggleWarehouse_FlexKeepsSingle(t *testing.T) {
	var list []int64
	for _, id := range []int64{101, 202, 303, 202} {
		list = ToggleWarehouse(list, id, dialog.ModeFlex)
		assert.LessOrEqual(t, len(list), 1)
	}
	// каждый новый выбор заменяет предыдущий
	assert.Equal(t, []int64{202}, list)
}

func TestToggleWarehouse_MassToggles(t *testing.T) {
	list := ToggleWarehouse(nil, 101, dialog.ModeMass)
	list = ToggleWarehouse(list, 202, dialog.ModeMass)
	assert.Equal(t, []int64{101, 202}, list)

	// двойное нажатие возвращает исходный набор
	list = ToggleWarehouse(list, 202, dialog.ModeMass)
	list = ToggleWarehouse(list, 202, dialog.ModeMass)
	assert.Equal(t, []int64{101, 202}, list)
}

func TestSyncSelected_CatalogOrderNoDuplicates(t *testing.T) {
	rows := []catalog.Warehouse{
		{ID: 1, Name: "Казань"},
		{ID: 2, Name: "Коледино"},
		{ID: 2, Name: "Коледино (дубль)"},
		{ID: 3, Name: "Тула"},
	}
	got := SyncSelected(rows, []int64{3, 2})

	assert.Equal(t, []dialog.WarehouseRef{
		{ID: 2, Name: "Коледино"},
		{ID: 3, Name: "Тула"},
	}, got)
}

func TestSyncSelected_Empty(t *testing.T) {
	assert.Empty(t, SyncSelected(nil, []int64{1}))
	assert.Empty(t, SyncSelected([]catalog.Warehouse{{ID: 1}}, nil))
}

func TestMergeCatalog_PrevFirstDeduped(t *testing.T) {
	prev := []dialog.WarehouseRef{{ID: 5, Name: "Алматы"}}
	page := []catalog.Warehouse{
		{ID: 1, Name: "Казань"},
		{ID: 5, Name: "Алматы"},
	}
	got := mergeCatalog(prev, page)
	assert.Equal(t, []catalog.Warehouse{
		{ID: 5, Name: "Алматы"},
		{ID: 1, Name: "Казань"},
	}, got)
}
