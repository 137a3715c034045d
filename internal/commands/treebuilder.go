package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/treedoc/internal/services/filesystem"
	"github.com/temirov/treedoc/internal/utils"
)

// EntryFilter excludes entries addressed by their path segments relative to the traversal root.
type EntryFilter interface {
	Excludes(relativeSegments []string, isDirectory bool) bool
}

// TreeBuilder builds directory tree nodes using configured options.
type TreeBuilder struct {
	IgnoreNames map[string]struct{}
	Filter      EntryFilter
	FileSystem  filesystem.Lister
	Logger      *zap.Logger
}

// NewTreeBuilder returns a TreeBuilder that skips the provided literal names at every depth.
// A nil file system falls back to the operating system and a nil logger discards output.
func NewTreeBuilder(fileSystem filesystem.Lister, ignoreNames []string, logger *zap.Logger) *TreeBuilder {
	if fileSystem == nil {
		fileSystem = filesystem.NewOSService()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeBuilder{
		IgnoreNames: utils.NameSet(utils.NormalizeNames(ignoreNames)),
		FileSystem:  fileSystem,
		Logger:      logger,
	}
}

// isIgnored reports whether name is a member of the ignore set.
func (treeBuilder *TreeBuilder) isIgnored(name string) bool {
	_, ignored := treeBuilder.IgnoreNames[name]
	return ignored
}
