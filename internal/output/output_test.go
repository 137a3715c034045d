package output_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/temirov/treedoc/internal/output"
	"github.com/temirov/treedoc/internal/types"
)

func fileNode(name string) *types.TreeOutputNode {
	return &types.TreeOutputNode{Path: "/project/" + name, Name: name, Type: types.NodeTypeFile}
}

func directoryNode(name string, children ...*types.TreeOutputNode) *types.TreeOutputNode {
	return &types.TreeOutputNode{Path: "/project/" + name, Name: name, Type: types.NodeTypeDirectory, Children: children}
}

// sampleTree mirrors:
//
//	project/
//	├── cmd
//	│   └── main.go
//	├── docs
//	│   ├── api
//	│   │   └── index.md
//	│   └── guide.md
//	└── go.mod
func sampleTree() *types.TreeOutputNode {
	return directoryNode("project",
		directoryNode("cmd", fileNode("main.go")),
		directoryNode("docs",
			directoryNode("api", fileNode("index.md")),
			fileNode("guide.md"),
		),
		fileNode("go.mod"),
	)
}

const sampleTreeBody = "├── cmd\n" +
	"│   └── main.go\n" +
	"├── docs\n" +
	"│   ├── api\n" +
	"│   │   └── index.md\n" +
	"│   └── guide.md\n" +
	"└── go.mod\n"

func TestRenderTreeLines(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		nodes    []*types.TreeOutputNode
		prefix   string
		expected string
	}{
		{
			name:     "nested_tree",
			nodes:    sampleTree().Children,
			expected: sampleTreeBody,
		},
		{
			name:     "single_directory_with_single_file",
			nodes:    []*types.TreeOutputNode{directoryNode("sub", fileNode("x.txt"))},
			expected: "└── sub\n    └── x.txt\n",
		},
		{
			name:     "empty_directory_contributes_only_its_line",
			nodes:    []*types.TreeOutputNode{directoryNode("empty"), fileNode("z.txt")},
			expected: "├── empty\n└── z.txt\n",
		},
		{
			name:     "prefix_is_prepended",
			nodes:    []*types.TreeOutputNode{fileNode("a.txt")},
			prefix:   "│       ",
			expected: "│       └── a.txt\n",
		},
		{
			name:     "no_nodes",
			nodes:    nil,
			expected: "",
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			actual := strings.Join(output.RenderTreeLines(testCase.nodes, testCase.prefix), "")
			if actual != testCase.expected {
				testingInstance.Fatalf("unexpected lines:\n%s\nexpected:\n%s", actual, testCase.expected)
			}
		})
	}
}

func TestRenderTreeLinesUsesOneLastConnectorPerSiblingGroup(testingInstance *testing.T) {
	lines := output.RenderTreeLines(sampleTree().Children, "")
	lastConnectorCount := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "└── ") {
			lastConnectorCount++
		}
	}
	if lastConnectorCount != 1 {
		testingInstance.Fatalf("expected exactly one top-level last connector, got %d", lastConnectorCount)
	}
}

func TestRenderTreeRaw(testingInstance *testing.T) {
	actual := output.RenderTreeRaw(sampleTree())
	expected := "project/\n" + sampleTreeBody
	if actual != expected {
		testingInstance.Fatalf("unexpected raw tree:\n%s", actual)
	}
	if output.RenderTreeRaw(nil) != "" {
		testingInstance.Fatalf("expected empty output for nil tree")
	}
	filesystemRoot := &types.TreeOutputNode{Name: "/", Path: "/", Type: types.NodeTypeDirectory}
	if rendered := output.RenderTreeRaw(filesystemRoot); rendered != "/\n" {
		testingInstance.Fatalf("unexpected raw root line %q", rendered)
	}
}

func TestComposeDocument(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		header   string
		rootName string
		body     string
		expected string
	}{
		{
			name:     "with_body",
			header:   "# Project Structure: project",
			rootName: "project",
			body:     "└── go.mod\n",
			expected: "# Project Structure: project\n\n```\nproject/\n└── go.mod\n```\n",
		},
		{
			name:     "empty_root",
			header:   "# Project Structure: empty",
			rootName: "empty",
			body:     "",
			expected: "# Project Structure: empty\n\n```\nempty/\n```\n",
		},
		{
			name:     "filesystem_root_is_not_doubled",
			header:   "# Project Structure: /",
			rootName: "/",
			body:     "└── etc\n",
			expected: "# Project Structure: /\n\n```\n/\n└── etc\n```\n",
		},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			actual := output.ComposeDocument(testCase.header, testCase.rootName, testCase.body)
			if actual != testCase.expected {
				testingInstance.Fatalf("unexpected document %q", actual)
			}
		})
	}
}

func TestFormatHeader(testingInstance *testing.T) {
	if actual := output.FormatHeader("", "demo"); actual != "# Project Structure: demo" {
		testingInstance.Fatalf("unexpected default header %q", actual)
	}
	if actual := output.FormatHeader("  Estructura del Proyecto ", "demo"); actual != "# Estructura del Proyecto: demo" {
		testingInstance.Fatalf("unexpected custom header %q", actual)
	}
}

func TestRenderTreeJSON(testingInstance *testing.T) {
	encoded, encodeError := output.RenderTreeJSON(sampleTree())
	if encodeError != nil {
		testingInstance.Fatalf("RenderTreeJSON error: %v", encodeError)
	}
	var decoded struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Children []struct {
			Name     string            `json:"name"`
			Children []json.RawMessage `json:"children"`
		} `json:"children"`
	}
	if decodeError := json.Unmarshal([]byte(encoded), &decoded); decodeError != nil {
		testingInstance.Fatalf("decode JSON: %v", decodeError)
	}
	if decoded.Name != "project" || decoded.Type != types.NodeTypeDirectory {
		testingInstance.Fatalf("unexpected root %+v", decoded)
	}
	if len(decoded.Children) != 3 || decoded.Children[1].Name != "docs" || len(decoded.Children[1].Children) != 2 {
		testingInstance.Fatalf("unexpected children %+v", decoded.Children)
	}
}

func TestRenderTreeXML(testingInstance *testing.T) {
	encoded, encodeError := output.RenderTreeXML(sampleTree())
	if encodeError != nil {
		testingInstance.Fatalf("RenderTreeXML error: %v", encodeError)
	}
	if !strings.HasPrefix(encoded, "<?xml") {
		testingInstance.Fatalf("missing XML header: %s", encoded)
	}
	for _, fragment := range []string{"<name>project</name>", "<name>index.md</name>", "<children>"} {
		if !strings.Contains(encoded, fragment) {
			testingInstance.Fatalf("expected %q in XML output:\n%s", fragment, encoded)
		}
	}
}

func TestSummarizeTree(testingInstance *testing.T) {
	summary := output.SummarizeTree(sampleTree())
	if summary.TotalFiles != 4 || summary.TotalDirectories != 3 {
		testingInstance.Fatalf("unexpected summary %+v", summary)
	}
	if line := output.FormatSummaryLine(summary); line != "Summary: 4 files, 3 directories" {
		testingInstance.Fatalf("unexpected summary line %q", line)
	}
	single := output.FormatSummaryLine(types.TreeSummary{TotalFiles: 1, TotalDirectories: 1})
	if single != "Summary: 1 file, 1 directory" {
		testingInstance.Fatalf("unexpected singular summary line %q", single)
	}
}
