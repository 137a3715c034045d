package gitignore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/treedoc/internal/services/gitignore"
)

func TestFilterReadsNestedGitignoreFiles(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	if writeError := os.WriteFile(filepath.Join(rootDirectory, ".gitignore"), []byte("*.log\nbuild/\n"), 0o644); writeError != nil {
		testingInstance.Fatalf("write root gitignore: %v", writeError)
	}
	nestedDirectory := filepath.Join(rootDirectory, "web")
	if mkdirError := os.Mkdir(nestedDirectory, 0o755); mkdirError != nil {
		testingInstance.Fatalf("mkdir: %v", mkdirError)
	}
	if writeError := os.WriteFile(filepath.Join(nestedDirectory, ".gitignore"), []byte("cache\n"), 0o644); writeError != nil {
		testingInstance.Fatalf("write nested gitignore: %v", writeError)
	}

	filter, filterError := gitignore.NewFilter(rootDirectory)
	if filterError != nil {
		testingInstance.Fatalf("NewFilter error: %v", filterError)
	}

	testCases := []struct {
		name        string
		segments    []string
		isDirectory bool
		expected    bool
	}{
		{name: "root_log_file", segments: []string{"debug.log"}, expected: true},
		{name: "nested_log_file", segments: []string{"web", "debug.log"}, expected: true},
		{name: "build_directory", segments: []string{"build"}, isDirectory: true, expected: true},
		{name: "nested_cache", segments: []string{"web", "cache"}, isDirectory: true, expected: true},
		{name: "cache_outside_nested", segments: []string{"cache"}, isDirectory: true, expected: false},
		{name: "regular_file", segments: []string{"main.go"}, expected: false},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			if actual := filter.Excludes(testCase.segments, testCase.isDirectory); actual != testCase.expected {
				testingInstance.Fatalf("Excludes(%v) = %t, expected %t", testCase.segments, actual, testCase.expected)
			}
		})
	}
}

func TestNilFilterExcludesNothing(testingInstance *testing.T) {
	var filter *gitignore.Filter
	if filter.Excludes([]string{"anything"}, false) {
		testingInstance.Fatalf("nil filter must not exclude entries")
	}
}

func TestFilterFromLines(testingInstance *testing.T) {
	filter := gitignore.NewFilterFromLines([]string{"dist/"})
	if !filter.Excludes([]string{"dist"}, true) {
		testingInstance.Fatalf("expected dist directory to be excluded")
	}
	if filter.Excludes([]string{"dist"}, false) {
		testingInstance.Fatalf("directory-only pattern must not match a file")
	}
}
