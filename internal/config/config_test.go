package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/report"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 0.95, cfg.Inventory.ServiceLevel)
	assert.Equal(t, 14, cfg.Inventory.ForecastHorizonDays)
	assert.Equal(t, []string{"recipe_deduct", "consumption", "deduction", "waste"}, cfg.Inventory.DepletionTypes)
}

func TestInventoryParamsMatchCalculatorDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	params := cfg.Inventory.Params()
	require.NoError(t, params.Validate())
	assert.Equal(t, inventory.DefaultParams(), params)
}

func TestReportOptionsMatchBatchDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, report.DefaultOptions(), cfg.Inventory.ReportOptions())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("INVENTORY_SERVICE_LEVEL", "0.99")
	t.Setenv("INVENTORY_DEPLETION_TYPES", "recipe_deduct, waste")
	t.Setenv("API_KEYS", "k1,k2")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	cfg := fromViper(v)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.99, cfg.Inventory.ServiceLevel)
	assert.Equal(t, []string{"recipe_deduct", "waste"}, cfg.Inventory.DepletionTypes)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"service level":    func(c *Config) { c.Inventory.ServiceLevel = 1.2 },
		"lookback":         func(c *Config) { c.Inventory.LookbackDays = 0 },
		"ordering cost":    func(c *Config) { c.Inventory.OrderingCost = 0 },
		"holding cost":     func(c *Config) { c.Inventory.HoldingCostPerUnitYear = 0 },
		"day ordering":     func(c *Config) { c.Inventory.CriticalDays = 9 },
		"depletion types":  func(c *Config) { c.Inventory.DepletionTypes = nil },
		"server mode":      func(c *Config) { c.Server.Mode = "prod" },
		"storage endpoint": func(c *Config) { c.Storage.Enabled = true },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig(t)
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " ", "c"}))
	assert.Empty(t, splitList(nil))
}
