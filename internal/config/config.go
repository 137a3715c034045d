// Package config loads treedoc configuration and owns the default ignore set.
package config

import (
	"path/filepath"
	"strings"

	"github.com/temirov/treedoc/internal/utils"
)

// defaultIgnoreNames lists entry names skipped at every depth when no ignore list is configured.
var defaultIgnoreNames = []string{
	utils.GitDirectoryName,
	"node_modules",
	".vercel",
	"__pycache__",
	".env",
	".env.local",
	utils.ConfigFileName,
	utils.DefaultReportFileName,
}

// DefaultIgnoreNames returns a copy of the default ignore set.
func DefaultIgnoreNames() []string {
	return append([]string{}, defaultIgnoreNames...)
}

// ResolveIgnoreNames combines the base names (the defaults when base is empty),
// the extra names supplied on the command line, the configuration file name and
// the base name of the report file. The last two are always excluded so a
// regenerated report never lists itself, even when written to a subdirectory.
func ResolveIgnoreNames(base []string, extra []string, outputFileName string) []string {
	names := base
	if len(names) == 0 {
		names = DefaultIgnoreNames()
	}
	combined := append(append([]string{}, names...), extra...)
	combined = append(combined, utils.ConfigFileName)
	if trimmedOutput := strings.TrimSpace(outputFileName); trimmedOutput != "" {
		combined = append(combined, filepath.Base(trimmedOutput))
	}
	return utils.NormalizeNames(combined)
}
