package httpapi

import (
	"context"

	"github.com/temirov/treedoc/internal/commands"
	"github.com/temirov/treedoc/internal/services/analysis"
)

// AnalysisPipeline runs the analysis script and then regenerates the report.
type AnalysisPipeline struct {
	Runner        *analysis.Runner
	Generator     *commands.ReportGenerator
	RootDirectory string
}

// Execute runs the script first; the report is only regenerated after the
// script succeeds. A nil Generator skips report generation.
func (pipeline AnalysisPipeline) Execute(ctx context.Context) error {
	if pipeline.Runner != nil {
		if _, runError := pipeline.Runner.Run(ctx); runError != nil {
			return runError
		}
	}
	if pipeline.Generator == nil {
		return nil
	}
	_, generateError := pipeline.Generator.Generate(pipeline.RootDirectory)
	return generateError
}

var _ Pipeline = AnalysisPipeline{}
