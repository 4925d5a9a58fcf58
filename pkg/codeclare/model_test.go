package codeclare

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AreebJan/CoDeclare/pkg/template"
)

func TestAllConstraints(t *testing.T) {
	all := All()
	assert.Len(t, all, 41)
	assert.IsIncreasing(t, Names())
	assert.True(t, IsKnown("precedence"))
	assert.True(t, IsKnown("absence2"))
	assert.False(t, IsKnown("PRECEDENCE"))
	assert.False(t, IsKnown("not_a_real_template"))
}

func TestAddActivitiesDeduplicates(t *testing.T) {
	m := NewModel()
	m.AddEnvironmentActivity("pay")
	m.AddEnvironmentActivity("pay")
	m.AddSystemActivity("ship")
	m.AddSystemActivity("ship")
	m.AddSystemActivity("cancel")

	assert.Equal(t, []string{"pay"}, m.Environment)
	assert.Equal(t, []string{"ship", "cancel"}, m.System)
	assert.Equal(t, []string{"pay", "ship", "cancel"}, m.Activities())
}

func TestAddConstraintRejectsUnknown(t *testing.T) {
	m := NewModel()
	err := m.AddAssumption("not_a_real_template", "a")

	var invalid *InvalidConstraintError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "not_a_real_template", invalid.Name)
	assert.Contains(t, err.Error(), "available templates: a_done_by_p_p_not_q")
	assert.Empty(t, m.Assumptions)

	require.Error(t, m.AddGuarantee("bogus"))
	assert.Empty(t, m.Guarantees)
}

func TestAddConstraintCopiesActivities(t *testing.T) {
	m := NewModel()
	acts := []string{"a", "b"}
	require.NoError(t, m.AddGuarantee(Precedence, acts...))
	acts[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, m.Guarantees[0].Activities)
}

func TestOrderDemo(t *testing.T) {
	m := OrderDemo()

	assert.Equal(t, []string{"regaddr", "pay", "reqc", "open"}, m.Environment)
	assert.Equal(t, []string{"skip", "ship", "cancel", "refund"}, m.System)
	assert.Equal(t, []template.Definition{
		{Template: "precedence", Activities: []string{"regaddr", "ship"}},
		{Template: "response", Activities: []string{"open", "regaddr"}},
		{Template: "absence2", Activities: []string{"pay"}},
	}, m.Assumptions)
	require.Len(t, m.Guarantees, 5)
	assert.Equal(t, "succession", m.Guarantees[4].Template)
	assert.NoError(t, m.Validate())
}

func TestValidate(t *testing.T) {
	m := NewModel()
	m.AddEnvironmentActivity("pay")
	m.AddSystemActivity("pay")
	m.Assumptions = append(m.Assumptions, template.Definition{Template: "bogus", Activities: []string{"a"}})
	m.Guarantees = append(m.Guarantees, template.Definition{Template: "response", Activities: []string{"a", "b"}})

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `assumption 0: invalid constraint "bogus"`)
	assert.Contains(t, err.Error(), `activity "pay" is both environment and system`)

	var invalid *InvalidConstraintError
	assert.True(t, errors.As(err, &invalid))
}

func TestJSONRoundTrip(t *testing.T) {
	original := OrderDemo()
	data, err := original.ToJSON()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"environment\""))

	loaded, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestYAMLRoundTrip(t *testing.T) {
	original := OrderDemo()
	data, err := original.ToYAML()
	require.NoError(t, err)

	loaded, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestFromJSONDefaultsMissingFields(t *testing.T) {
	m, err := FromJSON([]byte(`{"guarantees": [{"template": "existence", "activities": ["a"]}]}`))
	require.NoError(t, err)
	assert.Empty(t, m.Environment)
	assert.NotNil(t, m.Environment)
	assert.Empty(t, m.Assumptions)
	assert.Len(t, m.Guarantees, 1)
}

func TestFromJSONPermissiveTemplates(t *testing.T) {
	m, err := FromJSON([]byte(`{"assumptions": [{"template": "not_a_real_template", "activities": []}]}`))
	require.NoError(t, err)
	assert.Equal(t, "not_a_real_template", m.Assumptions[0].Template)
	assert.Error(t, m.Validate())
}

func TestFromJSONSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not_an_object", `[1, 2]`},
		{"unknown_field", `{"environment": [], "extra": true}`},
		{"activity_not_string", `{"environment": [1]}`},
		{"empty_activity", `{"system": [""]}`},
		{"constraint_missing_activities", `{"assumptions": [{"template": "response"}]}`},
		{"constraint_empty_template", `{"guarantees": [{"template": "", "activities": []}]}`},
		{"malformed", `{"environment": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestFromYAMLSchemaViolation(t *testing.T) {
	_, err := FromYAML([]byte("environment: [pay]\nbogus: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	original := OrderDemo()

	for _, name := range []string{"input/order_demo.json", "order_demo.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, original.SaveFile(path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, original, loaded)
		})
	}

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"environment": "pay"}`), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
