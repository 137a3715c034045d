// Package commands contains the tree rendering and report generation logic.
package commands

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/treedoc/internal/output"
	"github.com/temirov/treedoc/internal/types"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"

	debugSkipDirectoryMessage  = "skipping unreadable directory"
	debugUnresolvedRootMessage = "cannot resolve tree root"
	warningSymlinkCycleMessage = "not descending into directory that loops back to an ancestor"
)

// BuildTree walks rootDirectoryPath and returns its root node. The root is
// never filtered; unreadable directories contribute no children.
func (treeBuilder *TreeBuilder) BuildTree(rootDirectoryPath string) (*types.TreeOutputNode, error) {
	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootNode := &types.TreeOutputNode{
		Path: absoluteRootDirPath,
		Name: filepath.Base(absoluteRootDirPath),
		Type: types.NodeTypeDirectory,
	}
	rootNode.Children = treeBuilder.buildTreeNodes(absoluteRootDirPath, nil, []string{absoluteRootDirPath})
	return rootNode, nil
}

// RenderTree returns the connector lines for every entry beneath rootDirectoryPath.
// Failures degrade to an empty body.
func (treeBuilder *TreeBuilder) RenderTree(rootDirectoryPath string) string {
	rootNode, buildError := treeBuilder.BuildTree(rootDirectoryPath)
	if buildError != nil {
		treeBuilder.Logger.Debug(debugUnresolvedRootMessage, zap.String("path", rootDirectoryPath), zap.Error(buildError))
		return ""
	}
	return strings.Join(output.RenderTreeLines(rootNode.Children, ""), "")
}

// buildTreeNodes lists currentDirectoryPath and recursively builds its surviving children.
// ancestorPaths holds every directory from the root down to currentDirectoryPath.
func (treeBuilder *TreeBuilder) buildTreeNodes(currentDirectoryPath string, relativeSegments []string, ancestorPaths []string) []*types.TreeOutputNode {
	childNames, listError := treeBuilder.FileSystem.ListChildren(currentDirectoryPath)
	if listError != nil {
		treeBuilder.Logger.Debug(debugSkipDirectoryMessage, zap.String("path", currentDirectoryPath), zap.Error(listError))
		return nil
	}

	survivingNames := make([]string, 0, len(childNames))
	for _, childName := range childNames {
		if !treeBuilder.isIgnored(childName) {
			survivingNames = append(survivingNames, childName)
		}
	}
	sort.Strings(survivingNames)

	var nodes []*types.TreeOutputNode
	for _, childName := range survivingNames {
		childPath := filepath.Join(currentDirectoryPath, childName)
		isDirectory := treeBuilder.FileSystem.IsDirectory(childPath)
		childSegments := appendSegment(relativeSegments, childName)
		if treeBuilder.Filter != nil && treeBuilder.Filter.Excludes(childSegments, isDirectory) {
			continue
		}

		node := &types.TreeOutputNode{
			Path: childPath,
			Name: childName,
			Type: types.NodeTypeFile,
		}
		if isDirectory {
			node.Type = types.NodeTypeDirectory
			if treeBuilder.loopsToAncestor(childPath, ancestorPaths) {
				treeBuilder.Logger.Warn(warningSymlinkCycleMessage, zap.String("path", childPath))
			} else {
				node.Children = treeBuilder.buildTreeNodes(childPath, childSegments, appendSegment(ancestorPaths, childPath))
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// loopsToAncestor reports whether directoryPath resolves to one of its ancestors.
func (treeBuilder *TreeBuilder) loopsToAncestor(directoryPath string, ancestorPaths []string) bool {
	for _, ancestorPath := range ancestorPaths {
		if treeBuilder.FileSystem.SameEntry(directoryPath, ancestorPath) {
			return true
		}
	}
	return false
}

// appendSegment returns a new slice so sibling recursions never share backing arrays.
func appendSegment(segments []string, segment string) []string {
	extended := make([]string, len(segments), len(segments)+1)
	copy(extended, segments)
	return append(extended, segment)
}
