package session

import (
	"testing"

	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/rebeliceyang/ctower/internal/schema"
	"github.com/rebeliceyang/ctower/internal/schemes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sailings() []models.MainlineRate {
	return []models.MainlineRate{
		{ID: "M1", DeparturePort: "Shanghai", DischargePort: "Rotterdam", Carrier: "MSC"},
		{ID: "M2", DeparturePort: "Ningbo", DischargePort: "Hamburg", Carrier: "COSCO"},
		{ID: "M3", DeparturePort: "Shanghai", DischargePort: "Hamburg", Carrier: "COSCO"},
	}
}

func ids(rates []models.MainlineRate) []string {
	out := make([]string, len(rates))
	for i, r := range rates {
		out[i] = r.ID
	}
	return out
}

func TestOpenStartsFromDefaultScheme(t *testing.T) {
	s, err := Open(schema.DefaultRegistry(), schema.TabFCL, nil)
	require.NoError(t, err)

	assert.Equal(t, schema.TabFCL, s.TabKey())
	assert.Equal(t, s.Schemes().Default().Conditions, s.Store().Conditions())
	assert.Len(t, s.Schemes().List(), 1)
	assert.Equal(t, ids(sailings()), ids(Apply(s, sailings())))
}

func TestOpenUnknownTab(t *testing.T) {
	_, err := Open(schema.DefaultRegistry(), "lcl", nil)

	assert.ErrorIs(t, err, ErrUnknownTab)
}

func TestApplyFiltersWithWorkingConditions(t *testing.T) {
	s, err := Open(schema.DefaultRegistry(), schema.TabFCL, nil)
	require.NoError(t, err)

	require.True(t, s.Store().SetCondition("departurePort", models.OpEquals, models.Scalar("shanghai")))
	require.True(t, s.Store().SetCondition("carrier", models.OpBatch, models.Set("COSCO", "ONE")))

	assert.Equal(t, []string{"M3"}, ids(Apply(s, sailings())))

	s.Reset()
	assert.Len(t, Apply(s, sailings()), 3)
}

func TestSaveAsAndApplyScheme(t *testing.T) {
	s, err := Open(schema.DefaultRegistry(), schema.TabFCL, nil)
	require.NoError(t, err)

	s.Store().SetCondition("dischargePort", models.OpEquals, models.Scalar("Hamburg"))
	saved, err := s.SaveAs("  EU north  ")
	require.NoError(t, err)
	assert.Equal(t, "EU north", saved.Name)

	s.Store().SetCondition("dischargePort", models.OpEquals, models.Scalar("Rotterdam"))
	assert.Equal(t, []string{"M1"}, ids(Apply(s, sailings())))

	require.NoError(t, s.ApplyScheme(saved.ID))
	assert.Equal(t, []string{"M2", "M3"}, ids(Apply(s, sailings())))

	// edits after applying never reach the stored snapshot
	s.Store().SetValue("dischargePort", models.Scalar("Rotterdam"))
	stored, err := s.Schemes().Get(saved.ID)
	require.NoError(t, err)
	c, ok := s.Store().Condition("dischargePort")
	require.True(t, ok)
	assert.NotEqual(t, c.Value, findCondition(t, stored.Conditions, "dischargePort").Value)

	require.NoError(t, s.DeleteScheme(saved.ID))
	assert.ErrorIs(t, s.ApplyScheme(saved.ID), schemes.ErrSchemeNotFound)
	assert.ErrorIs(t, s.DeleteScheme(schemes.DefaultSchemeID), schemes.ErrDefaultSchemeDeletion)
}

func TestFieldLayoutSharesStoreVisibility(t *testing.T) {
	s, err := Open(schema.DefaultRegistry(), schema.TabOncarriage, nil)
	require.NoError(t, err)

	s.FieldLayout().ToggleVisible("zipCode", false)
	assert.False(t, s.Store().IsVisible("zipCode"))
	assert.NotContains(t, s.FieldLayout().VisibleKeys(), "zipCode")

	s.Store().SetVisibility("address", false)
	assert.NotContains(t, s.FieldLayout().VisibleKeys(), "address")

	// the result table columns keep their own visibility
	assert.Contains(t, s.ColumnLayout().VisibleKeys(), "zipCode")

	s.Reset()
	assert.True(t, s.Store().IsVisible("zipCode"))
}

func TestWorkspaceActivateReplacesSession(t *testing.T) {
	ws := NewWorkspace(schema.DefaultRegistry(), nil)
	assert.Nil(t, ws.Active())

	fcl, err := ws.Activate(schema.TabFCL)
	require.NoError(t, err)
	fcl.Store().SetCondition("carrier", models.OpEquals, models.Scalar("MSC"))
	_, err = fcl.SaveAs("msc only")
	require.NoError(t, err)

	pre, err := ws.Activate(schema.TabPrecarriage)
	require.NoError(t, err)
	assert.Same(t, pre, ws.Active())
	assert.Equal(t, schema.TabPrecarriage, ws.Active().TabKey())

	_, err = ws.Activate("air")
	assert.ErrorIs(t, err, ErrUnknownTab)
	assert.Same(t, pre, ws.Active())

	// memory-only schemes do not survive the tab switch
	again, err := ws.Activate(schema.TabFCL)
	require.NoError(t, err)
	assert.Len(t, again.Schemes().List(), 1)
	c, _ := again.Store().Condition("carrier")
	assert.False(t, c.Value.Defined())
}

func TestWorkspaceReloadsPersistedSchemes(t *testing.T) {
	backend, err := schemes.NewYAMLBackend(t.TempDir())
	require.NoError(t, err)
	ws := NewWorkspace(schema.DefaultRegistry(), backend)

	fcl, err := ws.Activate(schema.TabFCL)
	require.NoError(t, err)
	fcl.Store().SetCondition("carrier", models.OpEquals, models.Scalar("MSC"))
	saved, err := fcl.SaveAs("msc only")
	require.NoError(t, err)

	_, err = ws.Activate(schema.TabOncarriage)
	require.NoError(t, err)
	assert.Len(t, ws.Active().Schemes().List(), 1)

	again, err := ws.Activate(schema.TabFCL)
	require.NoError(t, err)
	require.Len(t, again.Schemes().List(), 2)
	require.NoError(t, again.ApplyScheme(saved.ID))
	assert.Equal(t, []string{"M1"}, ids(Apply(again, sailings())))
}

func findCondition(t *testing.T, conditions []models.FilterCondition, key string) models.FilterCondition {
	t.Helper()
	for _, c := range conditions {
		if c.FieldKey == key {
			return c
		}
	}
	t.Fatalf("no condition for %s", key)
	return models.FilterCondition{}
}
