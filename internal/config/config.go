package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dawnkit/wake-pipeline/internal/challenge"
	"github.com/dawnkit/wake-pipeline/internal/domain/alarm"
	"github.com/dawnkit/wake-pipeline/internal/escalation"
	"github.com/dawnkit/wake-pipeline/internal/logger"
	"github.com/dawnkit/wake-pipeline/internal/synth"
)

// Config holds the settings shared by the wake binaries.
type Config struct {
	// Alarms is the configured alarm list.
	Alarms []AlarmConfig `yaml:"alarms"`
	// SnoozeDelay is how long a snoozed alarm waits before re-firing.
	SnoozeDelay time.Duration `yaml:"snooze_delay"`
	// SampleRate is the synthesizer output rate in Hz.
	SampleRate int `yaml:"sample_rate"`
	// HistoryFile is the path to the JSON file recording completed wake-ups.
	HistoryFile string `yaml:"history_file"`
	// MetricsAddress is the listen address for the Prometheus endpoint.
	// Empty disables the endpoint.
	MetricsAddress string `yaml:"metrics_addr"`
	// LogLevel overrides the default logging level when set.
	LogLevel string `yaml:"log_level"`
}

// AlarmConfig is one alarm entry as written in YAML.
type AlarmConfig struct {
	// Time is the local fire time in "HH:MM" form.
	Time string `yaml:"time"`
	// Days lists repeat weekdays by name. Empty means fire once.
	Days []string `yaml:"days"`
	// Sound names the tone profile.
	Sound string `yaml:"sound"`
	// Challenge names the dismissal challenge variant.
	Challenge string `yaml:"challenge"`
	// Intensity names the alarm strength.
	Intensity string `yaml:"intensity"`
	// Enabled arms the alarm.
	Enabled bool `yaml:"enabled"`
}

const (
	// DefaultConfigFilename is the default filename for wake settings.
	DefaultConfigFilename = "wake-settings.yaml"

	// DefaultHistoryFilename is the default filename for wake history JSON.
	DefaultHistoryFilename = "wake-history.json"

	// DefaultSnoozeDelay is the snooze wait applied when none is configured.
	DefaultSnoozeDelay = 5 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAlarmTimeRequired is returned when an alarm entry has no time.
	errAlarmTimeRequired = errors.New("alarm time must be provided")
)

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks every alarm entry and fills in defaults for the
// daemon-level knobs.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	for i := range cfg.Alarms {
		if err := validateAlarm(&cfg.Alarms[i]); err != nil {
			return fmt.Errorf("alarm %d: %w", i, err)
		}
	}

	if cfg.SnoozeDelay <= 0 {
		cfg.SnoozeDelay = DefaultSnoozeDelay
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = synth.DefaultSampleRate
	}

	if cfg.HistoryFile == "" {
		cfg.HistoryFile = DefaultHistoryFilename
	}

	if cfg.LogLevel != "" {
		if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
			return fmt.Errorf("unknown log level %q", cfg.LogLevel)
		}
	}

	if cfg.MetricsAddress == "" {
		return nil
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.MetricsAddress); err != nil {
		return fmt.Errorf("invalid metrics socket: %w", err)
	}

	return nil
}

// validateAlarm parses every field of one entry, rejecting unknown names.
func validateAlarm(entry *AlarmConfig) error {
	if entry.Time == "" {
		return errAlarmTimeRequired
	}

	if _, err := alarm.ParseTimeOfDay(entry.Time); err != nil {
		return err
	}

	for _, day := range entry.Days {
		if _, err := alarm.ParseWeekday(day); err != nil {
			return err
		}
	}

	if entry.Sound != "" {
		if _, err := synth.Profile(synth.SoundID(entry.Sound)); err != nil {
			return err
		}
	}

	if _, err := challenge.ParseKind(entry.Challenge); err != nil {
		return err
	}

	if _, err := escalation.ParseIntensity(entry.Intensity); err != nil {
		return err
	}

	return nil
}

// Schedule converts the entry's time and repeat days into a domain schedule.
func (a AlarmConfig) Schedule() (alarm.Schedule, error) {
	tod, err := alarm.ParseTimeOfDay(a.Time)
	if err != nil {
		return alarm.Schedule{}, err
	}

	days := make(alarm.Weekdays, len(a.Days))

	for _, name := range a.Days {
		day, err := alarm.ParseWeekday(name)
		if err != nil {
			return alarm.Schedule{}, err
		}

		days[day] = struct{}{}
	}

	return alarm.NewSchedule(tod, days, a.Enabled)
}

// SoundID returns the entry's tone profile identifier, defaulted when unset.
func (a AlarmConfig) SoundID() synth.SoundID {
	if a.Sound == "" {
		return synth.SoundClassic
	}

	return synth.SoundID(a.Sound)
}

// ChallengeKind returns the entry's parsed challenge kind. Call after
// Validate; unparseable values fall back to the sequence challenge.
func (a AlarmConfig) ChallengeKind() challenge.Kind {
	kind, _ := challenge.ParseKind(a.Challenge)

	return kind
}

// IntensityLevel returns the entry's parsed intensity. Call after Validate;
// unparseable values fall back to moderate.
func (a AlarmConfig) IntensityLevel() escalation.Intensity {
	level, _ := escalation.ParseIntensity(a.Intensity)

	return level
}
