package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/treedoc/internal/output"
	"github.com/temirov/treedoc/internal/types"
	"github.com/temirov/treedoc/internal/utils"
)

const (
	errorBuildTreeFormat   = "building tree for %s: %w"
	errorWriteReportFormat = "writing report %s: %w"

	infoReportWrittenMessage = "report written"
)

// ReportWriter persists the assembled document.
type ReportWriter interface {
	WriteFile(path string, data []byte) error
}

// ReportGenerator renders a directory into a Markdown report and writes it.
type ReportGenerator struct {
	TreeBuilder    *TreeBuilder
	Writer         ReportWriter
	OutputFileName string
	Title          string
	Logger         *zap.Logger
}

// ReportResult describes a generated report.
type ReportResult struct {
	Document   string
	OutputPath string
	Summary    types.TreeSummary
}

// NewReportGenerator returns a ReportGenerator writing outputFileName inside the rendered root.
func NewReportGenerator(treeBuilder *TreeBuilder, writer ReportWriter, outputFileName string, title string, logger *zap.Logger) *ReportGenerator {
	if strings.TrimSpace(outputFileName) == "" {
		outputFileName = utils.DefaultReportFileName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportGenerator{
		TreeBuilder:    treeBuilder,
		Writer:         writer,
		OutputFileName: outputFileName,
		Title:          title,
		Logger:         logger,
	}
}

// ComposeReport renders rootDirectoryPath into the report document without writing it.
func (generator *ReportGenerator) ComposeReport(rootDirectoryPath string) (ReportResult, error) {
	rootNode, buildError := generator.TreeBuilder.BuildTree(rootDirectoryPath)
	if buildError != nil {
		return ReportResult{}, fmt.Errorf(errorBuildTreeFormat, rootDirectoryPath, buildError)
	}
	treeBody := strings.Join(output.RenderTreeLines(rootNode.Children, ""), "")
	header := output.FormatHeader(generator.Title, rootNode.Name)
	return ReportResult{
		Document:   output.ComposeDocument(header, rootNode.Name, treeBody),
		OutputPath: filepath.Join(rootNode.Path, generator.OutputFileName),
		Summary:    output.SummarizeTree(rootNode),
	}, nil
}

// Generate composes the report for rootDirectoryPath and overwrites the output file.
// Write failures are returned unchanged in meaning; nothing is retried.
func (generator *ReportGenerator) Generate(rootDirectoryPath string) (ReportResult, error) {
	result, composeError := generator.ComposeReport(rootDirectoryPath)
	if composeError != nil {
		return ReportResult{}, composeError
	}
	if writeError := generator.Writer.WriteFile(result.OutputPath, []byte(result.Document)); writeError != nil {
		return ReportResult{}, fmt.Errorf(errorWriteReportFormat, result.OutputPath, writeError)
	}
	generator.Logger.Info(infoReportWrittenMessage,
		zap.String("path", result.OutputPath),
		zap.Int("files", result.Summary.TotalFiles),
		zap.Int("directories", result.Summary.TotalDirectories),
	)
	return result, nil
}
