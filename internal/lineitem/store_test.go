package lineitem

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func stableIDs(t *testing.T) {
	t.Helper()
	n := 0
	prev := newID
	newID = func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	t.Cleanup(func() { newID = prev })
}

func TestAdd_AppendsZeroedItemWithFreshID(t *testing.T) {
	stableIDs(t)

	var s Store
	s, first := s.Add(Personnel)
	s, second := s.Add(Personnel)

	require.Len(t, s[Personnel], 2)
	assert.Equal(t, "item-1", first)
	assert.Equal(t, "item-2", second)
	assert.Equal(t, Item{ID: "item-1", Category: Personnel}, s[Personnel][0])
}

func TestAdd_DoesNotMutateReceiver(t *testing.T) {
	before, _ := Store{}.Add(Travel)
	after, _ := before.Add(Travel)

	assert.Len(t, before[Travel], 1)
	assert.Len(t, after[Travel], 2)
}

func TestUpdate_QuantityOrRateResetsAllocation(t *testing.T) {
	s, id := Store{}.Add(Personnel)
	s = s.Update(Personnel, id, FieldQuantity, "10")
	s = s.Update(Personnel, id, FieldRate, "50")
	s = s.Update(Personnel, id, FieldFederal, "300")
	s = s.Update(Personnel, id, FieldNonFederal, "200")

	item, ok := s.Get(Personnel, id)
	require.True(t, ok)
	assert.Equal(t, 300.0, item.FederalAmount)
	assert.Equal(t, 200.0, item.NonFederalAmount)

	s = s.Update(Personnel, id, FieldRate, "60")
	item, _ = s.Get(Personnel, id)
	assert.Equal(t, 600.0, item.FederalAmount)
	assert.Equal(t, 0.0, item.NonFederalAmount)

	s = s.Update(Personnel, id, FieldNonFederal, "100")
	s = s.Update(Personnel, id, FieldQuantity, "5")
	item, _ = s.Get(Personnel, id)
	assert.Equal(t, 300.0, item.FederalAmount)
	assert.Equal(t, 0.0, item.NonFederalAmount)
}

func TestUpdate_ManualSplitMayDivergeFromAmount(t *testing.T) {
	s, id := Store{}.Add(Supplies)
	s = s.Update(Supplies, id, FieldQuantity, "4")
	s = s.Update(Supplies, id, FieldRate, "25")
	s = s.Update(Supplies, id, FieldFederal, "10")

	item, _ := s.Get(Supplies, id)
	assert.Equal(t, 100.0, item.Amount())
	assert.Equal(t, 10.0, item.Total())
}

func TestUpdate_CoercesInvalidNumbersToZero(t *testing.T) {
	s, id := Store{}.Add(Equipment)
	for _, raw := range []string{"", "abc", "NaN", "Inf", "-Inf"} {
		s = s.Update(Equipment, id, FieldRate, "12")
		s = s.Update(Equipment, id, FieldRate, raw)
		item, _ := s.Get(Equipment, id)
		assert.Equalf(t, 0.0, item.Rate, "rate for %q", raw)
	}
}

func TestUpdate_TextFields(t *testing.T) {
	s, id := Store{}.Add(Labor)
	s = s.Update(Labor, id, FieldPosition, "Senior Developer")
	s = s.Update(Labor, id, FieldLevel, "III")
	s = s.Update(Labor, id, FieldDescription, "Backend work")

	item, _ := s.Get(Labor, id)
	assert.Equal(t, "Senior Developer", item.Position)
	assert.Equal(t, "III", item.Level)
	assert.Equal(t, "Backend work", item.Description)
}

func TestUpdate_UnknownIDIsNoop(t *testing.T) {
	s, id := Store{}.Add(Travel)
	s = s.Update(Travel, id, FieldRate, "5")

	got := s.Update(Travel, "missing", FieldRate, "99")
	assert.Equal(t, s, got)

	got = s.Update(Supplies, id, FieldRate, "99")
	assert.Equal(t, s, got)
}

func TestRemove(t *testing.T) {
	s, a := Store{}.Add(Other)
	s, b := s.Add(Other)

	s = s.Remove(Other, "missing")
	require.Len(t, s[Other], 2)

	s2 := s.Remove(Other, a)
	require.Len(t, s2[Other], 1)
	assert.Equal(t, b, s2[Other][0].ID)
	assert.Len(t, s[Other], 2)

	s2 = s2.Remove(Other, b)
	assert.Equal(t, 0, s2.Len())
	assert.Empty(t, s2.Categories())
}

func TestItemsFollowCategoryOrder(t *testing.T) {
	stableIDs(t)

	s, _ := Store{}.Add(Other)
	s, _ = s.Add(Personnel)
	s, _ = s.Add(Travel)
	s, _ = s.Add(Personnel)

	var got []string
	for _, item := range s.Items() {
		got = append(got, string(item.Category)+":"+item.ID)
	}
	assert.Equal(t, []string{"personnel:item-2", "personnel:item-4", "travel:item-3", "other:item-1"}, got)
}

func TestSubtotal(t *testing.T) {
	s, a := Store{}.Add(Personnel)
	s, b := s.Add(Personnel)
	s = s.Update(Personnel, a, FieldFederal, "1000")
	s = s.Update(Personnel, a, FieldNonFederal, "250")
	s = s.Update(Personnel, b, FieldFederal, "500")

	assert.Equal(t, 1750.0, s.Subtotal(Personnel))
	assert.Equal(t, 0.0, s.Subtotal(Travel))
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, Personnel, ParseCategory(" Personnel "))
	assert.Equal(t, Labor, ParseCategory("labor"))
	assert.Equal(t, Other, ParseCategory("indirect"))
	assert.Equal(t, Other, ParseCategory(""))
}

func TestNormalize(t *testing.T) {
	stableIDs(t)

	s := Store{Travel: {{Category: Supplies, Rate: 3}}}
	got := s.Normalize()

	assert.Equal(t, Item{ID: "item-1", Category: Travel, Rate: 3}, got[Travel][0])
	assert.Equal(t, "", s[Travel][0].ID)
}

func TestUnmarshalJSON_UnknownKeysJoinOther(t *testing.T) {
	var s Store
	body := `{"other":[{"id":"a","federalAmount":100}],"misc":[{"id":"b","federalAmount":50}],"Travel":[{"id":"c","federalAmount":7}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &s))

	require.Len(t, s[Other], 2)
	assert.Equal(t, "a", s[Other][0].ID)
	assert.Equal(t, "b", s[Other][1].ID)
	assert.Equal(t, 150.0, s.Subtotal(Other))
	require.Len(t, s[Travel], 1)
	assert.Equal(t, 3, s.Len())
}

func TestUnmarshalYAML_UnknownKeysJoinOther(t *testing.T) {
	var doc struct {
		Items Store `yaml:"items"`
	}
	body := "items:\n  other:\n    - id: a\n      federalAmount: 100\n  misc:\n    - id: b\n      federalAmount: 50\n"
	require.NoError(t, yaml.Unmarshal([]byte(body), &doc))

	require.Len(t, doc.Items[Other], 2)
	assert.Equal(t, 150.0, doc.Items.Subtotal(Other))
}

func TestUnmarshalJSON_Null(t *testing.T) {
	var doc struct {
		Items Store `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"items":null}`), &doc))
	assert.Equal(t, 0, doc.Items.Len())
}
