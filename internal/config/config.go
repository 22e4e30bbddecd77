package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries tool-level settings. Experiment parameters are not part of
// this record; they are resolved separately by the params package.
type Config struct {
	LogLevel         string
	LogFormat        string
	TelemetryEnabled bool
	Generation       Generation
}

// Generation holds the constants baked into every emitted descriptor. They
// are overridable through the environment for forks of the profile that use
// a different image or repository layout.
type Generation struct {
	BaseIP       string
	Netmask      string
	Image        string
	NamePrefix   string
	LANBandwidth int64
	ScriptPath   string
	BootLogPath  string
	MountPoint   string
}

func Load() (*Config, error) {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("telemetry_enabled", false)
	viper.SetDefault("base_ip", "10.10.1")
	viper.SetDefault("netmask", "255.255.255.0")
	viper.SetDefault("image", "urn:publicid:IDN+wisc.cloudlab.us+image+gwcloudlab-PG0:openwsk-v1:0")
	viper.SetDefault("name_prefix", "ow")
	viper.SetDefault("lan_bandwidth", 10000000)
	viper.SetDefault("script_path", "/local/repository/start.sh")
	viper.SetDefault("boot_log_path", "/home/cloudlab-openwhisk/start.log")
	viper.SetDefault("mount_point", "/mydata")

	viper.SetEnvPrefix("cloudlab")
	viper.AutomaticEnv()

	cfg := &Config{
		LogLevel:         viper.GetString("log_level"),
		LogFormat:        viper.GetString("log_format"),
		TelemetryEnabled: viper.GetBool("telemetry_enabled"),
		Generation: Generation{
			BaseIP:       viper.GetString("base_ip"),
			Netmask:      viper.GetString("netmask"),
			Image:        viper.GetString("image"),
			NamePrefix:   viper.GetString("name_prefix"),
			LANBandwidth: viper.GetInt64("lan_bandwidth"),
			ScriptPath:   viper.GetString("script_path"),
			BootLogPath:  viper.GetString("boot_log_path"),
			MountPoint:   viper.GetString("mount_point"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.LogFormat)
	}

	return c.Generation.Validate()
}

func (g *Generation) Validate() error {
	if octets := strings.Split(g.BaseIP, "."); len(octets) != 3 {
		return fmt.Errorf("base IP must be the first three octets of a /24, got %q", g.BaseIP)
	}

	if g.NamePrefix == "" {
		return fmt.Errorf("node name prefix must not be empty")
	}

	if g.Image == "" {
		return fmt.Errorf("disk image URN must not be empty")
	}

	if g.LANBandwidth <= 0 {
		return fmt.Errorf("LAN bandwidth must be positive, got %d", g.LANBandwidth)
	}

	if g.ScriptPath == "" {
		return fmt.Errorf("bootstrap script path must not be empty")
	}

	return nil
}
