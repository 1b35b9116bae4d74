// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-loadable client configuration. Timeouts use Go
// duration syntax ("30s", "1m"); empty values fall back to the defaults.
//
// Example config file:
//
//	url: https://192.168.1.1
//	username: admin
//	password: secret
//	insecure: false
//	request_timeout: 30s
//	probe_timeout: 5s
type Config struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Insecure disables TLS certificate verification (lab use only)
	Insecure bool `yaml:"insecure"`

	RequestTimeout string `yaml:"request_timeout"`
	ProbeTimeout   string `yaml:"probe_timeout"`
}

// LoadConfig reads and parses a YAML configuration file. Validation happens
// in NewClientFromConfig, so a loaded config can be inspected or amended
// before a client is built from it.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// options converts the config into functional options
func (cfg Config) options() ([]func(*Client), error) {
	opts := []func(*Client){
		Username(cfg.Username),
		Password(cfg.Password),
		Insecure(cfg.Insecure),
	}

	if cfg.RequestTimeout != "" {
		d, err := time.ParseDuration(cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid request_timeout: %w", err)
		}
		opts = append(opts, RequestTimeout(d))
	}
	if cfg.ProbeTimeout != "" {
		d, err := time.ParseDuration(cfg.ProbeTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid probe_timeout: %w", err)
		}
		opts = append(opts, ProbeTimeout(d))
	}

	return opts, nil
}

// NewClientFromConfig builds a client from a loaded config. Additional
// options are applied after the config and take precedence. Configuration
// validation is the same as NewClient's: a malformed URL or missing
// credentials fail construction.
//
// Example:
//
//	cfg, err := restconf.LoadConfig("router.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := restconf.NewClientFromConfig(cfg,
//	    restconf.WithLogger(restconf.NewDefaultLogger(restconf.LogLevelInfo)))
func NewClientFromConfig(cfg Config, opts ...func(*Client)) (*Client, error) {
	base, err := cfg.options()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg.URL, append(base, opts...)...)
}
