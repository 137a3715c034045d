package output

import "strings"

const (
	headerMarker    = "# "
	headerSeparator = ": "
	codeFence       = "```"
	// DefaultDocumentTitle titles the report header when no title is configured.
	DefaultDocumentTitle = "Project Structure"
)

// rootLine renders the root entry; a root named "/" is not doubled.
func rootLine(rootName string) string {
	return strings.TrimSuffix(rootName, directorySuffix) + directorySuffix + lineTerminator
}

// FormatHeader returns the Markdown heading naming the project.
func FormatHeader(title string, projectName string) string {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		trimmedTitle = DefaultDocumentTitle
	}
	return headerMarker + trimmedTitle + headerSeparator + projectName
}

// ComposeDocument wraps a rendered tree body in a fenced block below header.
// The body is expected to be newline-terminated or empty.
func ComposeDocument(header string, rootName string, treeBody string) string {
	var builder strings.Builder
	builder.WriteString(header)
	builder.WriteString(lineTerminator + lineTerminator)
	builder.WriteString(codeFence + lineTerminator)
	builder.WriteString(rootLine(rootName))
	builder.WriteString(treeBody)
	builder.WriteString(codeFence + lineTerminator)
	return builder.String()
}
