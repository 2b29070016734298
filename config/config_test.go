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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	p := writeFile(t, t.TempDir(), "gxuwb.toml", `
[device]
path = "/dev/sr200"

[transport]
read_error_limit = 3
write_wait_timeout = "500ms"
language = "fi"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/dev/sr200", cfg.Device.Path)
	assert.Equal(t, BackendCharDev, cfg.Device.Backend)
	assert.Equal(t, 3, cfg.Transport.ReadErrorLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Transport.WriteWaitTimeout)
	assert.Equal(t, time.Millisecond, cfg.Transport.ChipResetDelay)
	assert.Equal(t, 32, cfg.Transport.QueueSize)

	tag, err := cfg.LanguageTag()
	require.NoError(t, err)
	assert.Equal(t, language.Finnish, tag)
	assert.Equal(t, zerolog.InfoLevel, cfg.Logging().Level)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	p := writeFile(t, t.TempDir(), "gxuwb.toml", `
[device]
path = "/dev/sr200"
speed = 9
`)
	_, err := Load(p)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "device.speed")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty path", func(c *Config) { c.Device.Path = " " }},
		{"unknown backend", func(c *Config) { c.Device.Backend = "usb" }},
		{"spidev without irq", func(c *Config) { c.Device.Backend = BackendSPIDev }},
		{"zero wait", func(c *Config) { c.Transport.WriteWaitTimeout = 0 }},
		{"negative reset delay", func(c *Config) { c.Transport.ChipResetDelay = -time.Millisecond }},
		{"zero error limit", func(c *Config) { c.Transport.ReadErrorLimit = 0 }},
		{"zero queue", func(c *Config) { c.Transport.QueueSize = 0 }},
		{"zero command timeout", func(c *Config) { c.Transport.CommandTimeout = 0 }},
		{"bad trace", func(c *Config) { c.Transport.Trace = "chatty" }},
		{"bad language", func(c *Config) { c.Transport.Language = "x-!!" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad country", func(c *Config) { c.Vendor.CountryCode = "00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, Validate(cfg), ErrInvalidConfig)
		})
	}
}

func TestValidateSPIDev(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device.Backend = BackendSPIDev
	cfg.Device.Path = "/dev/spidev0.0"
	cfg.Device.IrqPin = "GPIO24"
	assert.NoError(t, Validate(cfg))
}
