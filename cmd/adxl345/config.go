// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/GermanBionicSystems/accel/adxl345"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Config is the content of the optional YAML configuration file.
type Config struct {
	Bus        string     `yaml:"bus"`     // I²C bus name, "" for the first one
	Address    uint16     `yaml:"address"` // 0 means scan the bus
	Range      string     `yaml:"range"`   // 2g, 4g, 8g or 16g
	Rate       string     `yaml:"rate"`    // Output data rate, e.g. 800Hz
	IntervalMs int        `yaml:"interval_ms"`
	Count      int        `yaml:"count"` // Samples to take, 0 for no limit
	StrictInit bool       `yaml:"strict_init"`
	MQTT       MQTTConfig `yaml:"mqtt"`
	Listen     string     `yaml:"listen"` // Websocket server address, "" to disable
}

// MQTTConfig selects the broker samples are published to.
type MQTTConfig struct {
	Broker   string `yaml:"broker"` // "" to disable
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

// defaultConfig mirrors adxl345.DefaultOpts and polls at 10Hz.
func defaultConfig() Config {
	return Config{
		Address:    adxl345.DefaultI2CAddr,
		Range:      "4g",
		Rate:       "800Hz",
		IntervalMs: 100,
		MQTT: MQTTConfig{
			Topic:    "adxl345/acceleration",
			ClientID: "adxl345",
		},
	}
}

var ranges = map[string]adxl345.Sensitivity{
	"2g":  adxl345.S2G,
	"4g":  adxl345.S4G,
	"8g":  adxl345.S8G,
	"16g": adxl345.S16G,
}

// loadConfig reads path over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// validate checks the configuration. It doesn't modify it.
func (c *Config) validate() error {
	var errs []error
	if _, ok := ranges[c.Range]; !ok {
		errs = append(errs, fmt.Errorf("range %q: must be one of 2g, 4g, 8g, 16g", c.Range))
	}
	if _, err := c.rate(); err != nil {
		errs = append(errs, err)
	}
	if c.Address > 0x3FF {
		errs = append(errs, fmt.Errorf("address %#x: out of the 10 bit I²C address space", c.Address))
	}
	if c.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("interval_ms %d: must be positive", c.IntervalMs))
	}
	if c.Count < 0 {
		errs = append(errs, fmt.Errorf("count %d: must not be negative", c.Count))
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		errs = append(errs, errors.New("mqtt: broker is set but topic is empty"))
	}
	return errors.Join(errs...)
}

func (c *Config) rate() (adxl345.Rate, error) {
	var f physic.Frequency
	if err := f.Set(c.Rate); err != nil {
		return 0, fmt.Errorf("rate %q: %w", c.Rate, err)
	}
	r, ok := adxl345.RateFor(f)
	if !ok {
		return 0, fmt.Errorf("rate %q: not an ADXL345 output data rate", c.Rate)
	}
	return r, nil
}

func (c *Config) interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// opts returns the driver options. The configuration must be valid.
func (c *Config) opts() *adxl345.Opts {
	o := adxl345.DefaultOpts
	o.DataFormat.Range = ranges[c.Range]
	o.BandwidthRate.Rate, _ = c.rate()
	o.StrictInit = c.StrictInit
	return &o
}
