package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"blackjack-arena/server/engine"
)

// Config is the full server configuration: table rules plus the knobs the
// process reads from the environment.
type Config struct {
	Addr        string
	DatabaseURL string
	Version     string
	Debug       bool
	AutoMigrate bool
	Table       TableConfig
}

// TableConfig defines the rules of the single blackjack table.
type TableConfig struct {
	InitialBalance int   `hcl:"initial_balance,optional"`
	MinBet         int   `hcl:"min_bet,optional"`
	MaxBet         int   `hcl:"max_bet,optional"`
	BlackjackNum   int   `hcl:"blackjack_payout_num,optional"`
	BlackjackDen   int   `hcl:"blackjack_payout_den,optional"`
	HitSoft17      *bool `hcl:"hit_soft_17,optional"`
}

type configFile struct {
	Table *TableConfig `hcl:"table,block"`
}

const version = "2.0.0"

// Default returns the configuration used when no file and no env overrides
// are present.
func Default() *Config {
	hitSoft := true
	return &Config{
		Addr:    ":8080",
		Version: version,
		Table: TableConfig{
			InitialBalance: 100,
			MinBet:         1,
			MaxBet:         1000,
			BlackjackNum:   3,
			BlackjackDen:   2,
			HitSoft17:      &hitSoft,
		},
	}
}

// Load builds the configuration from defaults, an optional HCL table file
// and the environment, in that order of precedence (env wins).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("parsing %s: %s", path, diags.Error())
	}
	var out configFile
	if diags := gohcl.DecodeBody(file.Body, nil, &out); diags.HasErrors() {
		return fmt.Errorf("decoding %s: %s", path, diags.Error())
	}
	if out.Table == nil {
		return nil
	}
	t := out.Table
	if t.InitialBalance != 0 {
		c.Table.InitialBalance = t.InitialBalance
	}
	if t.MinBet != 0 {
		c.Table.MinBet = t.MinBet
	}
	if t.MaxBet != 0 {
		c.Table.MaxBet = t.MaxBet
	}
	if t.BlackjackNum != 0 {
		c.Table.BlackjackNum = t.BlackjackNum
	}
	if t.BlackjackDen != 0 {
		c.Table.BlackjackDen = t.BlackjackDen
	}
	if t.HitSoft17 != nil {
		c.Table.HitSoft17 = t.HitSoft17
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Addr = Getenv("ADDR", c.Addr)
	c.DatabaseURL = Getenv("DATABASE_URL", c.DatabaseURL)
	c.Debug = AsBool(os.Getenv("DEBUG"))
	c.AutoMigrate = AsBool(os.Getenv("AUTO_MIGRATE"))
	c.Table.InitialBalance = AtoiDef(os.Getenv("INITIAL_BALANCE"), c.Table.InitialBalance)
	c.Table.MinBet = AtoiDef(os.Getenv("MIN_BET"), c.Table.MinBet)
	c.Table.MaxBet = AtoiDef(os.Getenv("MAX_BET"), c.Table.MaxBet)
	if v := os.Getenv("HIT_SOFT_17"); v != "" {
		b := AsBool(v)
		c.Table.HitSoft17 = &b
	}
}

func (c *Config) validate() error {
	t := c.Table
	if t.MinBet <= 0 || t.MaxBet < t.MinBet {
		return fmt.Errorf("invalid bet bounds [%d, %d]", t.MinBet, t.MaxBet)
	}
	if t.InitialBalance < 0 {
		return fmt.Errorf("invalid initial balance %d", t.InitialBalance)
	}
	if t.BlackjackNum <= 0 || t.BlackjackDen <= 0 {
		return fmt.Errorf("invalid blackjack payout %d/%d", t.BlackjackNum, t.BlackjackDen)
	}
	return nil
}

// Rules projects the table config into the engine's rules value.
func (c *Config) Rules() engine.Rules {
	hitSoft := true
	if c.Table.HitSoft17 != nil {
		hitSoft = *c.Table.HitSoft17
	}
	return engine.Rules{
		MinBet:       c.Table.MinBet,
		MaxBet:       c.Table.MaxBet,
		BlackjackNum: c.Table.BlackjackNum,
		BlackjackDen: c.Table.BlackjackDen,
		HitSoft17:    hitSoft,
	}
}

// Getenv returns the env var value or the default when unset.
func Getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// MustEnv exits via the returned error when a required env var is missing.
func MustEnv(keys ...string) error {
	for _, k := range keys {
		if os.Getenv(k) == "" {
			return fmt.Errorf("missing required env var %s; put it in .env (dev) or set it on the host (prod)", k)
		}
	}
	return nil
}

// AtoiDef parses s as an int, falling back to def on empty or bad input.
func AtoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// AsBool reads the usual truthy spellings.
func AsBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
