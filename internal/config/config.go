// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// Cmd selects the operation to run.
	Cmd string

	// ProfileDir is the Firefox profile directory; empty means auto-detect.
	ProfileDir string

	// File is the CSV path; empty means stdin for import, stdout for export.
	File string

	// Fields is the comma-separated export column list.
	Fields string

	// Host, Login and Password identify the record for the remove command.
	Host     string
	Login    string
	Password string

	// LogLevel sets the zap logging level.
	LogLevel string

	// Config is the path to the Config file.
	Config string

	// ShowVersion prints build metadata and exits.
	ShowVersion bool
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Cmd, "cmd", "", "command: export | import | remove | profiles")
	flag.StringVar(&options.ProfileDir, "dir", "", "Firefox profile directory (auto-detected when empty)")
	flag.StringVar(&options.File, "file", "", "CSV file (stdin/stdout when empty)")
	flag.StringVar(&options.Fields, "fields", "hostname,login,password", "comma-separated export columns")
	flag.StringVar(&options.Host, "host", "", "hostname of the record to remove")
	flag.StringVar(&options.Login, "login", "", "username of the record to remove")
	flag.StringVar(&options.Password, "password", "", "password of the record to remove")
	flag.StringVar(&options.LogLevel, "log", "info", "log level")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
	flag.BoolVar(&options.ShowVersion, "version", false, "show build version and date")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if profileDir := os.Getenv("FIREPASS_PROFILE"); profileDir != "" {
		options.ProfileDir = profileDir
	}

	return options
}
