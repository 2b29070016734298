package logging

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
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables that override the profile defaults.
const (
	// EnvLogLevel selects the level: trace, debug, info, warn, error or off.
	EnvLogLevel = "GXUWB_LOG_LEVEL"
	// EnvLogTimestamp turns timestamps on or off.
	EnvLogTimestamp = "GXUWB_LOG_TIMESTAMP"
	// EnvLogNoColor disables console colors.
	EnvLogNoColor = "GXUWB_LOG_NOCOLOR"
)

// Profile selects the defaults installed by Configure.
type Profile int

const (
	// ProfileRuntime logs info and above with timestamps.
	ProfileRuntime Profile = iota
	// ProfileTest logs debug and above without timestamps or colors.
	ProfileTest
)

// Config selects where and how log lines are written.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	// JSON writes raw zerolog JSON instead of console lines.
	JSON bool
	Out  io.Writer
}

// settings is what every logger consults when it writes.
type settings struct {
	out       io.Writer
	level     zerolog.Level
	timestamp bool
}

var (
	configureOnce sync.Once

	mu  sync.RWMutex
	cur = settings{out: io.Discard, level: zerolog.Disabled}
)

// sink forwards to the writer installed by the latest Apply.
type sink struct{}

func (sink) Write(p []byte) (int, error) {
	mu.RLock()
	w := cur.out
	mu.RUnlock()
	return w.Write(p)
}

// levelHook filters and stamps events with the settings current at write
// time.
type levelHook struct{}

func (levelHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	mu.RLock()
	s := cur
	mu.RUnlock()
	if level != zerolog.NoLevel && level < s.level {
		e.Discard()
		return
	}
	if s.timestamp {
		e.Timestamp()
	}
}

// ConfigureRuntime calls Configure with ProfileRuntime.
func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

// ConfigureTests calls Configure with ProfileTest.
func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the profile defaults with environment overrides.
// Only the first call has an effect.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := DefaultConfig(profile)
		applyEnvOverrides(&cfg)
		Apply(cfg)
	})
}

// DefaultConfig returns the settings of a profile before environment
// overrides.
func DefaultConfig(profile Profile) Config {
	cfg := Config{Out: os.Stderr}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
		cfg.NoColor = true
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

// Apply replaces the output settings. It also affects loggers returned by
// Logger before the call. Until the first Apply nothing is written.
func Apply(cfg Config) {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.RFC3339,
		}
	}
	mu.Lock()
	cur = settings{out: out, level: cfg.Level, timestamp: cfg.Timestamp}
	mu.Unlock()
}

// Enabled reports whether events of level are currently written.
func Enabled(level zerolog.Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return level >= cur.level
}

// Logger returns a logger tagged with the component name.
func Logger(component string) zerolog.Logger {
	return zerolog.New(sink{}).Hook(levelHook{}).With().Str("component", component).Logger()
}

// ParseLevel converts a level name. Unknown or empty names report false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "verbose":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
