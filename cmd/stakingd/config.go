// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/builtin/staker"
	"github.com/vechain/nftstaking/builtin/staker/stakes"
	"github.com/vechain/nftstaking/chain"
)

const configFileName = "config.yaml"

// fileConfig is the on-disk form of staker.Config.
type fileConfig struct {
	CycleLength    uint64            `yaml:"cycle-length"`
	PeriodLength   uint64            `yaml:"period-length"`
	FreezeCycles   uint64            `yaml:"freeze-cycles"`
	CooldownCycles uint64            `yaml:"cooldown-cycles"`
	Authority      chain.Address     `yaml:"authority"`
	Collection     chain.Address     `yaml:"collection"`
	Weights        map[string]uint64 `yaml:"weights"`
}

func newFileConfig(cfg *staker.Config) *fileConfig {
	fc := &fileConfig{
		CycleLength:    cfg.CycleLength,
		PeriodLength:   cfg.PeriodLength,
		FreezeCycles:   cfg.FreezeCycles,
		CooldownCycles: cfg.CooldownCycles,
		Authority:      cfg.Authority,
		Collection:     cfg.Collection,
		Weights:        make(map[string]uint64, len(cfg.Weights)),
	}
	for class, weight := range cfg.Weights {
		fc.Weights[class.String()] = weight
	}
	return fc
}

func (fc *fileConfig) stakerConfig() (*staker.Config, error) {
	cfg := &staker.Config{
		CycleLength:    fc.CycleLength,
		PeriodLength:   fc.PeriodLength,
		FreezeCycles:   fc.FreezeCycles,
		CooldownCycles: fc.CooldownCycles,
		Authority:      fc.Authority,
		Collection:     fc.Collection,
		Weights:        make(stakes.WeightTable, len(fc.Weights)),
	}
	for name, weight := range fc.Weights {
		class, err := collection.ParseClass(name)
		if err != nil {
			return nil, err
		}
		cfg.Weights[class] = weight
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func loadConfig(path string) (*staker.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return fc.stakerConfig()
}

// saveConfig writes cfg to path and refuses to replace an existing file.
func saveConfig(path string, cfg *staker.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	data, err := yaml.Marshal(newFileConfig(cfg))
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return errors.Wrap(err, "create config")
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// weightNames lists the configured classes in class order.
func weightNames(weights stakes.WeightTable) []collection.Class {
	classes := make([]collection.Class, 0, len(weights))
	for class := range weights {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}
