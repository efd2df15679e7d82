package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyDatabasePath      = "database.path"
	KeyUserLogin         = "user.login"
	KeyTimeLogResolution = "timelog.resolution_minutes"
	KeyRevisionTypes     = "timelog.revision_types"
	KeyProjectFPS        = "project.default_fps"
	KeyProjectStatuses   = "project.statuses"
	KeyAutoReconcile     = "import.auto_reconcile_after_import"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database" validate:"required"`
	User     UserConfig     `mapstructure:"user" yaml:"user"`
	TimeLog  TimeLogConfig  `mapstructure:"timelog" yaml:"timelog" validate:"required"`
	Project  ProjectConfig  `mapstructure:"project" yaml:"project" validate:"required"`
	Import   ImportConfig   `mapstructure:"import" yaml:"import"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

type UserConfig struct {
	// Login of the user running the CLI; time logs for other users need --on-behalf.
	Login string `mapstructure:"login" yaml:"login"`
}

type TimeLogConfig struct {
	ResolutionMinutes int      `mapstructure:"resolution_minutes" yaml:"resolution_minutes" validate:"required,oneof=1 2 3 4 5 6 10 12 15 20 30 60"`
	RevisionTypes     []string `mapstructure:"revision_types" yaml:"revision_types" validate:"min=1,dive,required"`
}

type ProjectConfig struct {
	DefaultFPS int      `mapstructure:"default_fps" yaml:"default_fps" validate:"gt=0"`
	Statuses   []string `mapstructure:"statuses" yaml:"statuses" validate:"min=1,dive,required"`
}

type ImportConfig struct {
	AutoReconcileAfterImport bool `mapstructure:"auto_reconcile_after_import" yaml:"auto_reconcile_after_import"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# tasklog configuration
database:
  path: "./tasklog.db"

user:
  # login of the user entering time logs
  login: ""

timelog:
  resolution_minutes: 10
  revision_types:
    - "Client Revision"
    - "Supervisor Revision"
    - "Artist Mistake"

project:
  default_fps: 25
  statuses: ["NEW", "WIP", "CMPL"]

import:
  # extend overrun task schedules after every import
  auto_reconcile_after_import: false
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateRevisionTypes(cfg.TimeLog.RevisionTypes); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "./tasklog.db")
	v.SetDefault(KeyUserLogin, "")
	v.SetDefault(KeyTimeLogResolution, 10)
	v.SetDefault(KeyRevisionTypes, []string{"Client Revision", "Supervisor Revision", "Artist Mistake"})
	v.SetDefault(KeyProjectFPS, 25)
	v.SetDefault(KeyProjectStatuses, []string{"NEW", "WIP", "CMPL"})
	v.SetDefault(KeyAutoReconcile, false)
}

func validateRevisionTypes(types []string) error {
	seen := make(map[string]struct{}, len(types))
	for i, name := range types {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return fmt.Errorf("validation failed: timelog.revision_types[%d] is empty", i)
		}
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate revision type %q", name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
