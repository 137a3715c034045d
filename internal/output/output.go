// Package output renders directory trees as connector lines, Markdown
// documents, and structured encodings.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/temirov/treedoc/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"
	lineTerminator  = "\n"
)

// RenderTreeLines returns one newline-terminated line per node, depth first.
// Each call owns the lines it returns; directories splice their children's
// lines directly after their own line.
func RenderTreeLines(nodes []*types.TreeOutputNode, prefix string) []string {
	var lines []string
	for index, node := range nodes {
		if node == nil {
			continue
		}
		isLast := index == len(nodes)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLast {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		lines = append(lines, prefix+connector+node.Name+lineTerminator)
		if node.Type == types.NodeTypeDirectory {
			lines = append(lines, RenderTreeLines(node.Children, childPrefix)...)
		}
	}
	return lines
}

// RenderTreeRaw returns the root line followed by the connector body.
func RenderTreeRaw(rootNode *types.TreeOutputNode) string {
	if rootNode == nil {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(rootLine(rootNode.Name))
	for _, line := range RenderTreeLines(rootNode.Children, "") {
		builder.WriteString(line)
	}
	return builder.String()
}

// RenderTreeJSON marshals the tree with indentation.
func RenderTreeJSON(rootNode *types.TreeOutputNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(rootNode, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderTreeXML marshals the tree as an XML document.
func RenderTreeXML(rootNode *types.TreeOutputNode) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(rootNode, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// SummarizeTree counts the files and directories below rootNode, excluding the root itself.
func SummarizeTree(rootNode *types.TreeOutputNode) types.TreeSummary {
	var summary types.TreeSummary
	if rootNode == nil {
		return summary
	}
	for _, child := range rootNode.Children {
		if child == nil {
			continue
		}
		if child.Type == types.NodeTypeDirectory {
			summary.TotalDirectories++
			nested := SummarizeTree(child)
			summary.TotalDirectories += nested.TotalDirectories
			summary.TotalFiles += nested.TotalFiles
			continue
		}
		summary.TotalFiles++
	}
	return summary
}

// FormatSummaryLine formats a TreeSummary into the raw summary line.
func FormatSummaryLine(summary types.TreeSummary) string {
	fileLabel := "files"
	if summary.TotalFiles == 1 {
		fileLabel = "file"
	}
	directoryLabel := "directories"
	if summary.TotalDirectories == 1 {
		directoryLabel = "directory"
	}
	return fmt.Sprintf("Summary: %d %s, %d %s", summary.TotalFiles, fileLabel, summary.TotalDirectories, directoryLabel)
}
