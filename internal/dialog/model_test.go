package dialog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_DoesNotMutateOriginal(t *testing.T) {
	coef := 2
	orig := Selection{
		List:     []int64{101},
		BoxTypes: []string{"mono"},
		Coef:     &coef,
		Mode:     ModeMass,
	}

	five := 5
	patched := orig.Apply(Patch{Coef: &five, BoxTypes: []string{"pan", "safe"}})

	assert.Equal(t, 2, *orig.Coef)
	assert.Equal(t, []string{"mono"}, orig.BoxTypes)
	assert.Equal(t, 5, *patched.Coef)
	assert.Equal(t, []string{"pan", "safe"}, patched.BoxTypes)

	// слайсы не разделяются
	patched.List[0] = 999
	assert.Equal(t, int64(101), orig.List[0])
}

func TestApply_NilFieldsUntouched(t *testing.T) {
	start := "2025-06-01"
	orig := Selection{PeriodStart: start, CurrentPage: 3, Mode: ModeFlex}

	got := orig.Apply(Patch{})

	assert.Equal(t, orig.PeriodStart, got.PeriodStart)
	assert.Equal(t, orig.CurrentPage, got.CurrentPage)
	assert.Equal(t, orig.Mode, got.Mode)
}

func TestApply_ClearCoef(t *testing.T) {
	coef := 7
	orig := Selection{Coef: &coef}

	got := orig.Apply(Patch{ClearCoef: true})
	assert.Nil(t, got.Coef)
	assert.NotNil(t, orig.Coef)
}

func TestClone_DeepCopiesDefault(t *testing.T) {
	coef := 1
	orig := Selection{
		Default: Snapshot{BoxTypes: []string{"mono"}, Coef: &coef},
	}
	cp := orig.Clone()
	cp.Default.BoxTypes[0] = "pan"
	*cp.Default.Coef = 9

	assert.Equal(t, "mono", orig.Default.BoxTypes[0])
	assert.Equal(t, 1, *orig.Default.Coef)
}

func TestSelection_JSONRoundTrip(t *testing.T) {
	coef := 3
	orig := Selection{
		CurrentPage:     1,
		List:            []int64{101, 202},
		SelectedList:    []WarehouseRef{{ID: 101, Name: "Казань"}},
		BoxTypes:        []string{"mono", "pan"},
		Coef:            &coef,
		PeriodStart:     "2025-06-01",
		PeriodEnd:       "2025-06-07",
		Mode:            ModeMass,
		ExistingTaskIDs: []int64{303},
	}

	raw, err := json.Marshal(orig)
	require.NoError(t, err)

	// имена полей зафиксированы: по ним читаются живые сессии
	assert.Contains(t, string(raw), `"box_type"`)
	assert.Contains(t, string(raw), `"coefs"`)
	assert.Contains(t, string(raw), `"selected_list"`)

	var got Selection
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, orig, got)
}

func TestNewSelection(t *testing.T) {
	sel := NewSelection(ModeFlex)
	assert.Equal(t, ModeFlex, sel.Mode)
	assert.Empty(t, sel.List)
	assert.False(t, sel.Selected(1))
	assert.False(t, sel.HasExistingTask(1))
}
