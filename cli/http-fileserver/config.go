package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	E "github.com/sagernet/sing/common/exceptions"
)

const (
	defaultListen = "::"
	defaultPort   = 8080

	envPort   = "HTTP_FILESERVER_PORT"
	envRoot   = "HTTP_FILESERVER_ROOT"
	envListen = "HTTP_FILESERVER_LISTEN"
)

type Flags struct {
	Listen         string `json:"listen"`
	Port           uint16 `json:"port"`
	Root           string `json:"root"`
	Index          string `json:"index"`
	MaxConnections int    `json:"max_connections"`
	LogLevel       string `json:"log_level"`
	Verbose        bool   `json:"verbose"`
	ConfigFile     string `json:"-"`
}

type InvalidPortError struct {
	Raw string
}

func (e *InvalidPortError) Error() string {
	return "Invalid port: " + e.Raw
}

func parsePort(raw string) (uint16, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > 65535 {
		return 0, &InvalidPortError{Raw: raw}
	}
	return uint16(port), nil
}

// loadDotEnv reads KEY=value pairs from path into the environment. A missing
// file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !os.IsNotExist(err) {
		return E.Cause(err, "load ", path)
	}
	return nil
}

// loadFlags fills f in order of precedence: positional port, command line
// flags (already in f), config file, environment, defaults.
func loadFlags(f *Flags, args []string) error {
	var portArg uint16
	if len(args) > 0 {
		port, err := parsePort(args[0])
		if err != nil {
			return err
		}
		portArg = port
	}

	if f.ConfigFile != "" {
		configFile, err := os.ReadFile(f.ConfigFile)
		if err != nil {
			return E.Cause(err, "read config file")
		}
		flagsNew := new(Flags)
		err = json.Unmarshal(configFile, flagsNew)
		if err != nil {
			return E.Cause(err, "decode config file")
		}
		if flagsNew.Listen != "" && f.Listen == "" {
			f.Listen = flagsNew.Listen
		}
		if flagsNew.Port != 0 && f.Port == 0 {
			f.Port = flagsNew.Port
		}
		if flagsNew.Root != "" && f.Root == "" {
			f.Root = flagsNew.Root
		}
		if flagsNew.Index != "" && f.Index == "" {
			f.Index = flagsNew.Index
		}
		if flagsNew.MaxConnections != 0 && f.MaxConnections == 0 {
			f.MaxConnections = flagsNew.MaxConnections
		}
		if flagsNew.LogLevel != "" && f.LogLevel == "" {
			f.LogLevel = flagsNew.LogLevel
		}
		if flagsNew.Verbose {
			f.Verbose = true
		}
	}

	if raw := os.Getenv(envPort); raw != "" && f.Port == 0 && portArg == 0 {
		port, err := parsePort(raw)
		if err != nil {
			return err
		}
		f.Port = port
	}
	if root := os.Getenv(envRoot); root != "" && f.Root == "" {
		f.Root = root
	}
	if listen := os.Getenv(envListen); listen != "" && f.Listen == "" {
		f.Listen = listen
	}

	if portArg != 0 {
		f.Port = portArg
	}
	if f.Port == 0 {
		f.Port = defaultPort
	}
	if f.Listen == "" {
		f.Listen = defaultListen
	}
	if f.Root == "" {
		root, err := executableDir()
		if err != nil {
			return err
		}
		f.Root = root
	}
	return nil
}

// executableDir is the directory holding the running binary, with symlinks
// resolved.
func executableDir() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", E.Cause(err, "locate executable")
	}
	executable, err = filepath.EvalSymlinks(executable)
	if err != nil {
		return "", E.Cause(err, "resolve executable")
	}
	return filepath.Dir(executable), nil
}
