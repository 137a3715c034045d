package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/treedoc/internal/utils"
)

const (
	// DefaultListenAddress is where the HTTP trigger listens when no address is configured.
	DefaultListenAddress = "127.0.0.1:8080"
	// DefaultScriptTimeout bounds a single analysis script run.
	DefaultScriptTimeout = 5 * time.Minute

	errorInvalidTimeoutFormat = "invalid script timeout %q: %w"
)

// defaultScriptCommand runs the companion analysis script relative to the project root.
var defaultScriptCommand = []string{"python3", filepath.Join("dashboard", "py", "analizar_proyecto.py")}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Generate GenerateConfiguration `mapstructure:"generate" yaml:"generate"`
	Serve    ServeConfiguration    `mapstructure:"serve" yaml:"serve"`
}

// GenerateConfiguration configures report generation and tree rendering.
type GenerateConfiguration struct {
	Output       string   `mapstructure:"output" yaml:"output,omitempty"`
	Title        string   `mapstructure:"title" yaml:"title,omitempty"`
	Ignore       []string `mapstructure:"ignore" yaml:"ignore,omitempty"`
	UseGitignore *bool    `mapstructure:"use_gitignore" yaml:"use_gitignore,omitempty"`
}

// ServeConfiguration configures the HTTP trigger.
type ServeConfiguration struct {
	Address        string              `mapstructure:"address" yaml:"address,omitempty"`
	GenerateReport *bool               `mapstructure:"generate_report" yaml:"generate_report,omitempty"`
	Script         ScriptConfiguration `mapstructure:"script" yaml:"script"`
}

// ScriptConfiguration describes the companion analysis script.
type ScriptConfiguration struct {
	Enabled          *bool    `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Command          []string `mapstructure:"command" yaml:"command,omitempty"`
	WorkingDirectory string   `mapstructure:"working_directory" yaml:"working_directory,omitempty"`
	Timeout          string   `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Generate.Ignore = utils.NormalizeNames(merged.Generate.Ignore)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Generate = result.Generate.merge(override.Generate)
	result.Serve = result.Serve.merge(override.Serve)
	return result
}

func (config GenerateConfiguration) merge(override GenerateConfiguration) GenerateConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Title != "" {
		result.Title = override.Title
	}
	if len(override.Ignore) > 0 {
		result.Ignore = append([]string{}, utils.NormalizeNames(override.Ignore)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	return result
}

func (config ServeConfiguration) merge(override ServeConfiguration) ServeConfiguration {
	result := config
	if override.Address != "" {
		result.Address = override.Address
	}
	if override.GenerateReport != nil {
		result.GenerateReport = cloneBool(override.GenerateReport)
	}
	result.Script = result.Script.merge(override.Script)
	return result
}

func (config ScriptConfiguration) merge(override ScriptConfiguration) ScriptConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if len(override.Command) > 0 {
		result.Command = append([]string{}, override.Command...)
	}
	if override.WorkingDirectory != "" {
		result.WorkingDirectory = override.WorkingDirectory
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	return result
}

// OutputFileName returns the configured report file name or the default.
func (config GenerateConfiguration) OutputFileName() string {
	if trimmed := strings.TrimSpace(config.Output); trimmed != "" {
		return trimmed
	}
	return utils.DefaultReportFileName
}

// GitignoreEnabled reports whether .gitignore files should filter the tree.
func (config GenerateConfiguration) GitignoreEnabled() bool {
	return config.UseGitignore != nil && *config.UseGitignore
}

// ListenAddress returns the configured address or the default.
func (config ServeConfiguration) ListenAddress() string {
	if trimmed := strings.TrimSpace(config.Address); trimmed != "" {
		return trimmed
	}
	return DefaultListenAddress
}

// ReportEnabled reports whether a trigger regenerates the report after the script succeeds.
func (config ServeConfiguration) ReportEnabled() bool {
	return config.GenerateReport == nil || *config.GenerateReport
}

// CommandLine returns the script command, the default when none is configured,
// or nil when the script is disabled.
func (config ScriptConfiguration) CommandLine() []string {
	if config.Enabled != nil && !*config.Enabled {
		return nil
	}
	if len(config.Command) == 0 {
		return append([]string{}, defaultScriptCommand...)
	}
	return append([]string{}, config.Command...)
}

// TimeoutDuration parses the configured timeout, defaulting to DefaultScriptTimeout.
func (config ScriptConfiguration) TimeoutDuration() (time.Duration, error) {
	trimmed := strings.TrimSpace(config.Timeout)
	if trimmed == "" {
		return DefaultScriptTimeout, nil
	}
	duration, parseError := time.ParseDuration(trimmed)
	if parseError != nil {
		return 0, fmt.Errorf(errorInvalidTimeoutFormat, trimmed, parseError)
	}
	if duration <= 0 {
		return DefaultScriptTimeout, nil
	}
	return duration, nil
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
