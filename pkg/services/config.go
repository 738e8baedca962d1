// Copyright 2026 The processing-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"os"

	"github.com/everyday-items/toolkit/lang/syncx"
)

// Config exposes the documented environment variables. It is constructible
// without side effects beyond reading the environment.
type Config struct{}

var configInstance = syncx.NewLazy(func() *Config {
	return &Config{}
})

// GetConfig returns the process-wide configuration singleton.
func GetConfig() *Config {
	return configInstance.Get()
}

// Get returns the raw value of an environment variable, or "" if unset.
func (c *Config) Get(key string) string {
	return os.Getenv(key)
}

// GetOr returns the value of an environment variable, or fallback if unset.
func (c *Config) GetOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// TikaHost returns the analysis service host.
func (c *Config) TikaHost() string { return c.GetOr("TIKA_HOST", "localhost") }

// TikaPort returns the analysis service port.
func (c *Config) TikaPort() string { return c.GetOr("TIKA_PORT", "9998") }

// TikaURL returns the analysis service base URL.
func (c *Config) TikaURL() string {
	return "http://" + c.TikaHost() + ":" + c.TikaPort()
}

// TemporalHost returns the orchestrator host. The orchestrator itself lives
// outside this module; the accessor exists so callers share one source of
// endpoint truth.
func (c *Config) TemporalHost() string { return c.GetOr("TEMPORAL_HOST", "localhost") }

// TemporalPort returns the orchestrator port.
func (c *Config) TemporalPort() string { return c.GetOr("TEMPORAL_PORT", "7233") }

// LogLevel returns the configured log level name, "info" by default.
func (c *Config) LogLevel() string { return c.GetOr("LOG_LEVEL", "info") }
