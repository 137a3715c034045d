// Package gitignore answers whether paths below a root are excluded by the
// .gitignore files found in that root.
package gitignore

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	gitignorefmt "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const errorReadPatternsFormat = "read gitignore patterns below %s: %w"

// Filter matches relative path segments against gitignore patterns.
type Filter struct {
	matcher gitignorefmt.Matcher
}

// NewFilter reads every .gitignore below rootDirectoryPath.
func NewFilter(rootDirectoryPath string) (*Filter, error) {
	patterns, readError := gitignorefmt.ReadPatterns(osfs.New(rootDirectoryPath), nil)
	if readError != nil {
		return nil, fmt.Errorf(errorReadPatternsFormat, rootDirectoryPath, readError)
	}
	return &Filter{matcher: gitignorefmt.NewMatcher(patterns)}, nil
}

// NewFilterFromLines builds a filter from pattern lines declared at the root.
func NewFilterFromLines(lines []string) *Filter {
	patterns := make([]gitignorefmt.Pattern, 0, len(lines))
	for _, line := range lines {
		patterns = append(patterns, gitignorefmt.ParsePattern(line, nil))
	}
	return &Filter{matcher: gitignorefmt.NewMatcher(patterns)}
}

// Excludes reports whether the entry addressed by relativeSegments is ignored.
func (filter *Filter) Excludes(relativeSegments []string, isDirectory bool) bool {
	if filter == nil || filter.matcher == nil || len(relativeSegments) == 0 {
		return false
	}
	return filter.matcher.Match(relativeSegments, isDirectory)
}
