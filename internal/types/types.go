// Package types defines every cross‑package data structure used by the treedoc CLI.
package types

import "encoding/xml"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// ValidatedPath is an absolute directory path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
}

// TreeOutputNode represents a node of a directory tree returned by the tree command.
type TreeOutputNode struct {
	XMLName  xml.Name          `json:"-" xml:"node"`
	Path     string            `json:"path" xml:"path"`
	Name     string            `json:"name" xml:"name"`
	Type     string            `json:"type" xml:"type"`
	Children []*TreeOutputNode `json:"children,omitempty" xml:"children>node,omitempty"`
}

// TreeSummary captures aggregate counts for a rendered tree.
type TreeSummary struct {
	TotalFiles       int `json:"totalFiles" xml:"totalFiles"`
	TotalDirectories int `json:"totalDirectories" xml:"totalDirectories"`
}
