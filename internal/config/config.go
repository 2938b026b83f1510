package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"hostmon/internal/model"
)

const (
	DefaultInterval        = 5 * time.Second
	DefaultCPUWindow       = time.Second
	DefaultTopN            = 3
	DefaultShutdownTimeout = 10 * time.Second
	DefaultScratchDirName  = "dummy_cache"
	DefaultLogFileName     = "system.log"
)

type Config struct {
	Thresholds      model.ThresholdConfig `yaml:"thresholds"`
	Interval        time.Duration         `yaml:"interval"`
	CPUWindow       time.Duration         `yaml:"cpu_window"`
	TopN            int                   `yaml:"top_n"`
	ScratchDir      string                `yaml:"scratch_dir"`
	DiskPath        string                `yaml:"disk_path"`
	LogFile         string                `yaml:"log_file"`
	LogLevel        string                `yaml:"log_level"`
	ProbeListenAddr string                `yaml:"probe_addr"`
	ShutdownTimeout time.Duration         `yaml:"shutdown_timeout"`
	TLSCertPath     string                `yaml:"tls_cert_path"`
	TLSKeyPath      string                `yaml:"tls_key_path"`
	TLSCAPath       string                `yaml:"tls_ca_path"`
}

// Defaults anchors the scratch dir, monitored disk and log file next to baseDir.
func Defaults(baseDir string) Config {
	return Config{
		Thresholds:      model.DefaultThresholds(),
		Interval:        DefaultInterval,
		CPUWindow:       DefaultCPUWindow,
		TopN:            DefaultTopN,
		ScratchDir:      filepath.Join(baseDir, DefaultScratchDirName),
		DiskPath:        baseDir,
		LogFile:         filepath.Join(baseDir, DefaultLogFileName),
		LogLevel:        "info",
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// BaseDir is the directory holding the running binary, or "." if it cannot be resolved.
func BaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// Load layers defaults, the optional YAML file at path, then HOSTMON_* environment
// variables. It does not validate: the caller applies command-line flags and then
// calls Validate on the final result.
func Load(path string) (Config, error) {
	cfg := Defaults(BaseDir())
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	cfg.LogLevel = NormalizeLevel(cfg.LogLevel)
	return cfg, nil
}

// NormalizeLevel lowercases a log level name from any configuration layer.
func NormalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Thresholds.CPUPercent = envFloat("HOSTMON_CPU_THRESHOLD", c.Thresholds.CPUPercent)
	c.Thresholds.DiskFreePercent = envFloat("HOSTMON_DISK_THRESHOLD", c.Thresholds.DiskFreePercent)
	c.Interval = envDuration("HOSTMON_INTERVAL", c.Interval)
	c.CPUWindow = envDuration("HOSTMON_CPU_WINDOW", c.CPUWindow)
	c.TopN = envInt("HOSTMON_TOP_N", c.TopN)
	c.ScratchDir = env("HOSTMON_SCRATCH_DIR", c.ScratchDir)
	c.DiskPath = env("HOSTMON_DISK_PATH", c.DiskPath)
	c.LogFile = env("HOSTMON_LOG_FILE", c.LogFile)
	c.LogLevel = env("HOSTMON_LOG_LEVEL", c.LogLevel)
	c.ProbeListenAddr = env("HOSTMON_PROBE_ADDR", c.ProbeListenAddr)
	c.ShutdownTimeout = envDuration("HOSTMON_SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.TLSCertPath = env("HOSTMON_TLS_CERT_PATH", c.TLSCertPath)
	c.TLSKeyPath = env("HOSTMON_TLS_KEY_PATH", c.TLSKeyPath)
	c.TLSCAPath = env("HOSTMON_TLS_CA_PATH", c.TLSCAPath)
}

func (c Config) Validate() error {
	if c.Thresholds.CPUPercent < 0 || c.Thresholds.CPUPercent > 100 {
		return fmt.Errorf("cpu threshold must be between 0 and 100 (got %g)", c.Thresholds.CPUPercent)
	}
	if c.Thresholds.DiskFreePercent < 0 || c.Thresholds.DiskFreePercent > 100 {
		return fmt.Errorf("disk threshold must be between 0 and 100 (got %g)", c.Thresholds.DiskFreePercent)
	}
	if c.Interval <= 0 {
		return errors.New("interval must be > 0")
	}
	if c.CPUWindow <= 0 {
		return errors.New("cpu window must be > 0")
	}
	if c.TopN < 1 {
		return fmt.Errorf("top-n must be >= 1 (got %d)", c.TopN)
	}
	if strings.TrimSpace(c.ScratchDir) == "" {
		return errors.New("scratch dir is required")
	}
	if strings.TrimSpace(c.DiskPath) == "" {
		return errors.New("disk path is required")
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return errors.New("log file is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.LogLevel)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be > 0")
	}
	if (c.TLSCertPath == "") != (c.TLSKeyPath == "") {
		return errors.New("both TLS cert and key are required")
	}
	return nil
}

// TLSConfig builds the probe server's TLS settings. It returns nil when no certificate
// is configured. A CA file turns on client certificate verification.
func (c Config) TLSConfig() (*tls.Config, error) {
	if c.TLSCertPath == "" && c.TLSKeyPath == "" {
		return nil, nil
	}
	crt, err := tls.LoadX509KeyPair(c.TLSCertPath, c.TLSKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load probe cert/key: %w", err)
	}
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12, Certificates: []tls.Certificate{crt}}
	if c.TLSCAPath != "" {
		caBytes, err := os.ReadFile(c.TLSCAPath)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return nil, errors.New("append CA cert failed")
		}
		tlsCfg.ClientCAs = pool
		tlsCfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return tlsCfg, nil
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// envDuration accepts Go durations ("5s") or a bare number of seconds ("5").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
