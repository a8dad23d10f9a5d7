package origen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSettingsFillsMissingModules(t *testing.T) {
	loaded := Settings{
		AppName: "Custom",
		Modules: map[string]ModuleConfig{
			ModuleInventory: {Enabled: false, Label: "Stock"},
		},
	}

	merged := MergeSettings(loaded)

	assert.Equal(t, "Custom", merged.AppName)
	assert.Equal(t, DefaultSettings().AppSubtitle, merged.AppSubtitle)

	// The edited module survives, the rest come from defaults.
	require.Len(t, merged.Modules, len(DefaultSettings().Modules))
	assert.False(t, merged.Modules[ModuleInventory].Enabled)
	assert.Equal(t, "Stock", merged.Modules[ModuleInventory].Label)
	assert.True(t, merged.Modules[ModuleLoans].Enabled)
}

func TestMergeSettingsKeepsZeroThreshold(t *testing.T) {
	loaded := DefaultSettings()
	loaded.InventoryAlertThreshold = 0

	assert.Zero(t, MergeSettings(loaded).InventoryAlertThreshold)
}

func TestCloneDoesNotAliasModules(t *testing.T) {
	s := DefaultSettings()
	c := s.Clone()
	c.Modules[ModuleEvents] = ModuleConfig{Enabled: false}

	assert.True(t, s.Modules[ModuleEvents].Enabled)
}
