// Package config implements the line-oriented directive file: `#`-comment
// stripping, whitespace tokenization, one directive per line, and an
// abort (via logger.Fatalf) on any unknown directive or directive given
// the wrong number of arguments.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"kvhouse/internal/logger"
	"kvhouse/internal/persistence"
)

// Config is the result of parsing a directive file (or, absent a path on
// the command line, the built-in defaults).
type Config struct {
	Port        int
	Bind        string
	Databases   int
	IdleTimeout int // seconds
	Dir         string
	LogLevel    logger.LogLevel
	LogFile     string // "stdout", or a path to append to
	SaveRules   []persistence.SaveRule
}

// Default returns the built-in defaults: port 6379, 16 databases, 300s
// idle timeout, and the three built-in save rules.
func Default() Config {
	return Config{
		Port:        6379,
		Bind:        "",
		Databases:   16,
		IdleTimeout: 300,
		Dir:         ".",
		LogLevel:    logger.InfoLevel,
		LogFile:     "stdout",
		SaveRules:   persistence.DefaultSaveRules(),
	}
}

// Load reads the directive file at path, starting from Default() and
// applying each line in order. A `save` directive is appendable: the
// first one seen clears the built-in defaults, and every subsequent
// `save` line appends another rule. Any parse error calls logger.Fatalf
// and does not return: an unknown directive or bad arity aborts startup.
func Load(path string) Config {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("config: can't open %s: %v", path, err)
		return cfg
	}
	defer f.Close()

	sawSave := false
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if err := apply(&cfg, fields, &sawSave); err != nil {
			logger.Fatalf("config: line %d: %v\n>>> %q", lineNum, err, line)
			return cfg
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Fatalf("config: reading %s: %v", path, err)
	}
	return cfg
}

func apply(cfg *Config, fields []string, sawSave *bool) error {
	if len(fields) == 0 {
		return nil
	}
	directive := strings.ToLower(fields[0])
	args := fields[1:]

	switch directive {
	case "timeout":
		if len(args) != 1 {
			return fmt.Errorf("'timeout' takes exactly one argument")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid timeout value")
		}
		cfg.IdleTimeout = n

	case "port":
		if len(args) != 1 {
			return fmt.Errorf("'port' takes exactly one argument")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("invalid port")
		}
		cfg.Port = n

	case "bind":
		if len(args) != 1 {
			return fmt.Errorf("'bind' takes exactly one argument")
		}
		cfg.Bind = args[0]

	case "save":
		if len(args) != 2 {
			return fmt.Errorf("'save' takes exactly two arguments")
		}
		seconds, err1 := strconv.Atoi(args[0])
		changes, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || seconds < 1 || changes < 0 {
			return fmt.Errorf("invalid save parameters")
		}
		if !*sawSave {
			cfg.SaveRules = nil
			*sawSave = true
		}
		cfg.SaveRules = append(cfg.SaveRules, persistence.SaveRule{Seconds: seconds, Changes: changes})

	case "dir":
		if len(args) != 1 {
			return fmt.Errorf("'dir' takes exactly one argument")
		}
		cfg.Dir = args[0]

	case "loglevel":
		if len(args) != 1 {
			return fmt.Errorf("'loglevel' takes exactly one argument")
		}
		switch args[0] {
		case "debug":
			cfg.LogLevel = logger.DebugLevel
		case "notice":
			cfg.LogLevel = logger.InfoLevel // logrus has no separate notice level
		case "warning":
			cfg.LogLevel = logger.WarnLevel
		default:
			return fmt.Errorf("invalid log level. Must be one of debug, notice, warning")
		}

	case "logfile":
		if len(args) != 1 {
			return fmt.Errorf("'logfile' takes exactly one argument")
		}
		cfg.LogFile = args[0]

	case "databases":
		if len(args) != 1 {
			return fmt.Errorf("'databases' takes exactly one argument")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid number of databases")
		}
		cfg.Databases = n

	default:
		return fmt.Errorf("bad directive or wrong number of arguments: %q", directive)
	}
	return nil
}

// Addr formats Port/Bind into the net.Listen address server.Config wants.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}
