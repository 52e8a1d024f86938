package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 100, cfg.Table.InitialBalance)
	assert.Equal(t, 1, cfg.Table.MinBet)
	assert.Equal(t, 1000, cfg.Table.MaxBet)

	rules := cfg.Rules()
	assert.Equal(t, 3, rules.BlackjackNum)
	assert.Equal(t, 2, rules.BlackjackDen)
	assert.True(t, rules.HitSoft17)
}

func TestLoadHCLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	src := `
table {
  initial_balance = 500
  min_bet         = 5
  max_bet         = 200
  hit_soft_17     = false
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Table.InitialBalance)
	assert.Equal(t, 5, cfg.Table.MinBet)
	assert.Equal(t, 200, cfg.Table.MaxBet)
	assert.False(t, cfg.Rules().HitSoft17)
	// untouched fields keep defaults
	assert.Equal(t, 3, cfg.Table.BlackjackNum)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	require.NoError(t, os.WriteFile(path, []byte("table {\n  min_bet = 5\n}\n"), 0o644))

	t.Setenv("MIN_BET", "25")
	t.Setenv("ADDR", ":9090")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Table.MinBet)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestLoadRejectsBadBounds(t *testing.T) {
	t.Setenv("MIN_BET", "100")
	t.Setenv("MAX_BET", "10")
	_, err := Load("")
	require.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 7, AtoiDef("7", 3))
	assert.Equal(t, 3, AtoiDef("", 3))
	assert.Equal(t, 3, AtoiDef("x", 3))
	assert.True(t, AsBool("Yes"))
	assert.True(t, AsBool(" on "))
	assert.False(t, AsBool("0"))
	assert.False(t, AsBool(""))

	t.Setenv("SOME_KEY", "v")
	assert.Equal(t, "v", Getenv("SOME_KEY", "d"))
	assert.Equal(t, "d", Getenv("SOME_MISSING_KEY", "d"))
	require.Error(t, MustEnv("SOME_MISSING_KEY"))
	require.NoError(t, MustEnv("SOME_KEY"))
}
