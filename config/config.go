package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"landchain/crypto"
	"landchain/native/economy"

	"github.com/BurntSushi/toml"
)

// Economy holds the staking-module knobs. Amounts are decimal strings so the
// file survives values beyond 64 bits.
type Economy struct {
	MinimumStake                  string `toml:"MinimumStake"`
	MaximumEstateStakePerLandUnit string `toml:"MaximumEstateStakePerLandUnit"`
	StakingExitDelayRounds        uint64 `toml:"StakingExitDelayRounds"`
	InnovationExitDelayRounds     uint64 `toml:"InnovationExitDelayRounds"`
	EraFrequency                  uint64 `toml:"EraFrequency"`
	EstimatedRewardPerEra         string `toml:"EstimatedRewardPerEra"`
	RewardPayoutAccount           string `toml:"RewardPayoutAccount"`
}

// Pauses lists modules that refuse state-changing operations.
type Pauses struct {
	Economy bool `toml:"Economy"`
}

type Config struct {
	ListenAddress  string  `toml:"ListenAddress"`
	RPCAddress     string  `toml:"RPCAddress"`
	MetricsAddress string  `toml:"MetricsAddress"`
	DataDir        string  `toml:"DataDir"`
	NetworkName    string  `toml:"NetworkName"`
	BlockInterval  string  `toml:"BlockInterval"`
	BlocksPerRound uint64  `toml:"BlocksPerRound"`
	Economy        Economy `toml:"Economy"`
	Pauses         Pauses  `toml:"Pauses"`
}

// Load loads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "land-local"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./land-data"
	}
	if strings.TrimSpace(cfg.MetricsAddress) == "" {
		cfg.MetricsAddress = "127.0.0.1:9464"
	}
	if strings.TrimSpace(cfg.BlockInterval) == "" {
		cfg.BlockInterval = "6s"
	}
	if cfg.BlocksPerRound == 0 {
		cfg.BlocksPerRound = 100
	}
	defaults := economy.DefaultParams()
	if strings.TrimSpace(cfg.Economy.MinimumStake) == "" {
		cfg.Economy.MinimumStake = defaults.MinimumStake.String()
	}
	if strings.TrimSpace(cfg.Economy.MaximumEstateStakePerLandUnit) == "" {
		cfg.Economy.MaximumEstateStakePerLandUnit = defaults.MaximumEstateStakePerLandUnit.String()
	}
	if cfg.Economy.StakingExitDelayRounds == 0 {
		cfg.Economy.StakingExitDelayRounds = defaults.StakingExitDelayRounds
	}
	if cfg.Economy.InnovationExitDelayRounds == 0 {
		cfg.Economy.InnovationExitDelayRounds = defaults.InnovationExitDelayRounds
	}
	if strings.TrimSpace(cfg.Economy.EstimatedRewardPerEra) == "" {
		cfg.Economy.EstimatedRewardPerEra = "0"
	}
}

// Validate checks the configuration for values the node would refuse at
// startup.
func Validate(cfg *Config) error {
	if _, err := time.ParseDuration(cfg.BlockInterval); err != nil {
		return fmt.Errorf("invalid BlockInterval: %w", err)
	}
	if _, err := cfg.Economy.Params(); err != nil {
		return err
	}
	if _, err := cfg.Economy.RewardPerEra(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Economy.RewardPayoutAccount) != "" {
		if _, err := cfg.Economy.PayoutAccount(); err != nil {
			return err
		}
	}
	return nil
}

// Params parses the staking parameters into runtime values.
func (e Economy) Params() (economy.Params, error) {
	params := economy.Params{
		StakingExitDelayRounds:    e.StakingExitDelayRounds,
		InnovationExitDelayRounds: e.InnovationExitDelayRounds,
	}
	minimum, err := parseAmount(e.MinimumStake)
	if err != nil {
		return params, fmt.Errorf("invalid Economy.MinimumStake: %w", err)
	}
	params.MinimumStake = minimum
	maximum, err := parseAmount(e.MaximumEstateStakePerLandUnit)
	if err != nil {
		return params, fmt.Errorf("invalid Economy.MaximumEstateStakePerLandUnit: %w", err)
	}
	params.MaximumEstateStakePerLandUnit = maximum
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}

// RewardPerEra parses the configured per-era reward amount.
func (e Economy) RewardPerEra() (*big.Int, error) {
	amount, err := parseAmount(e.EstimatedRewardPerEra)
	if err != nil {
		return nil, fmt.Errorf("invalid Economy.EstimatedRewardPerEra: %w", err)
	}
	return amount, nil
}

// PayoutAccount decodes the configured reward payout address.
func (e Economy) PayoutAccount() ([20]byte, error) {
	var out [20]byte
	addr, err := crypto.DecodeAddress(e.RewardPayoutAccount)
	if err != nil {
		return out, fmt.Errorf("invalid Economy.RewardPayoutAccount: %w", err)
	}
	copy(out[:], addr.Bytes())
	return out, nil
}

// PauseSet converts the pause flags into the runtime pause view.
func (p Pauses) PauseSet() map[string]bool {
	return map[string]bool{"economy": p.Economy}
}

func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("expected non-negative decimal integer, got %q", raw)
	}
	return value, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ListenAddress: "0.0.0.0:6001",
		RPCAddress:    "0.0.0.0:8545",
	}
	applyDefaults(cfg)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
