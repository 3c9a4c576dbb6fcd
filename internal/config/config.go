// Package config defines the CLI structure and configuration for joymap.
package config

import (
	"github.com/attack3/joymap/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"JOYMAP_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"JOYMAP_LOG_FILE"`
	RawFile string `help:"Raw HID read log file path (default: none)" env:"JOYMAP_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	ConfigFile string `name:"config" help:"Configuration file to load before the default locations" type:"path" env:"JOYMAP_CONFIG"`

	Run     cmd.Run           `cmd:"" default:"withargs" help:"Map the joystick to keyboard and mouse input"`
	Monitor cmd.Monitor       `cmd:"" help:"Print raw reports and states without injecting input"`
	Devices cmd.Devices       `cmd:"" help:"List attached HID devices"`
	Config  cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
}
