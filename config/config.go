package config

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxuwb-go/logging"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// Device backends.
const (
	BackendCharDev = "chardev"
	BackendSPIDev  = "spidev"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the runtime configuration file.
type Config struct {
	Device    DeviceConfig    `toml:"device"`
	Transport TransportConfig `toml:"transport"`
	Log       LogConfig       `toml:"log"`
	Vendor    VendorConfig    `toml:"vendor"`
}

// DeviceConfig selects the device node and backend.
type DeviceConfig struct {
	Path    string `toml:"path"`
	Backend string `toml:"backend"`
	// SPI settings are used by the spidev backend only.
	SPIClockHz int64  `toml:"spi_clock_hz"`
	IrqPin     string `toml:"irq_pin"`
	EnablePin  string `toml:"enable_pin"`
}

// TransportConfig tunes the transport and the command issuer.
type TransportConfig struct {
	WriteWaitTimeout time.Duration `toml:"write_wait_timeout"`
	ChipResetDelay   time.Duration `toml:"chip_reset_delay"`
	ReadErrorLimit   int           `toml:"read_error_limit"`
	QueueSize        int           `toml:"queue_size"`
	CommandTimeout   time.Duration `toml:"command_timeout"`
	Trace            string        `toml:"trace"`
	Language         string        `toml:"language"`
}

// LogConfig configures zerolog output.
type LogConfig struct {
	Level     string `toml:"level"`
	NoColor   bool   `toml:"no_color"`
	Timestamp bool   `toml:"timestamp"`
	JSON      bool   `toml:"json"`
}

// VendorConfig points to the vendor .conf cascade.
type VendorConfig struct {
	Path        string `toml:"path"`
	CountryCode string `toml:"country_code"`
}

// DefaultConfig returns the settings used for keys missing from the file.
func DefaultConfig() Config {
	return Config{
		Device: DeviceConfig{
			Path:       "/dev/srxxx",
			Backend:    BackendCharDev,
			SPIClockHz: 8000000,
		},
		Transport: TransportConfig{
			WriteWaitTimeout: time.Second,
			ChipResetDelay:   time.Millisecond,
			ReadErrorLimit:   5,
			QueueSize:        32,
			CommandTimeout:   2 * time.Second,
			Trace:            "Error",
			Language:         "en-US",
		},
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s: %w", path, strings.Join(keys, ", "), ErrInvalidConfig)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enum names.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Device.Path) == "" {
		return fmt.Errorf("device.path is required: %w", ErrInvalidConfig)
	}
	switch cfg.Device.Backend {
	case BackendCharDev:
	case BackendSPIDev:
		if cfg.Device.IrqPin == "" {
			return fmt.Errorf("device.irq_pin is required for %s: %w", BackendSPIDev, ErrInvalidConfig)
		}
		if cfg.Device.SPIClockHz <= 0 {
			return fmt.Errorf("device.spi_clock_hz must be positive: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("device.backend %q: %w", cfg.Device.Backend, ErrInvalidConfig)
	}
	t := cfg.Transport
	if t.WriteWaitTimeout <= 0 {
		return fmt.Errorf("transport.write_wait_timeout must be positive: %w", ErrInvalidConfig)
	}
	if t.ChipResetDelay < 0 {
		return fmt.Errorf("transport.chip_reset_delay must not be negative: %w", ErrInvalidConfig)
	}
	if t.ReadErrorLimit < 1 {
		return fmt.Errorf("transport.read_error_limit must be at least 1: %w", ErrInvalidConfig)
	}
	if t.QueueSize < 1 {
		return fmt.Errorf("transport.queue_size must be at least 1: %w", ErrInvalidConfig)
	}
	if t.CommandTimeout <= 0 {
		return fmt.Errorf("transport.command_timeout must be positive: %w", ErrInvalidConfig)
	}
	if _, err := cfg.TraceLevel(); err != nil {
		return fmt.Errorf("transport.trace: %w: %w", err, ErrInvalidConfig)
	}
	if _, err := cfg.LanguageTag(); err != nil {
		return fmt.Errorf("transport.language: %w: %w", err, ErrInvalidConfig)
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("log.level %q: %w", cfg.Log.Level, ErrInvalidConfig)
	}
	if cc := cfg.Vendor.CountryCode; cc != "" && !IsValidCountryCode(cc) {
		return fmt.Errorf("vendor.country_code %q: %w", cc, ErrInvalidConfig)
	}
	return nil
}

// TraceLevel parses Transport.Trace.
func (c Config) TraceLevel() (gxcommon.TraceLevel, error) {
	return gxcommon.TraceLevelParse(c.Transport.Trace)
}

// LanguageTag parses Transport.Language.
func (c Config) LanguageTag() (language.Tag, error) {
	return language.Parse(c.Transport.Language)
}

// Logging returns the logging settings of the file.
func (c Config) Logging() logging.Config {
	lvl, ok := logging.ParseLevel(c.Log.Level)
	if !ok {
		lvl = zerolog.InfoLevel
	}
	return logging.Config{
		Level:     lvl,
		NoColor:   c.Log.NoColor,
		Timestamp: c.Log.Timestamp,
		JSON:      c.Log.JSON,
	}
}
