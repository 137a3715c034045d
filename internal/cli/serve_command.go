package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/temirov/treedoc/internal/commands"
	"github.com/temirov/treedoc/internal/config"
	"github.com/temirov/treedoc/internal/services/analysis"
	"github.com/temirov/treedoc/internal/services/filesystem"
	"github.com/temirov/treedoc/internal/services/httpapi"
)

const (
	serveUse              = "serve"
	serveShortDescription = "serve the analysis trigger over HTTP"

	serveLongDescription = `Listen for POST ` + httpapi.RunAnalysisPath + ` requests. Each request runs the
configured analysis script in the project directory and then regenerates the report.`

	addressFlagName        = "address"
	addressFlagDescription = "listen address (host:port)"
	listeningFormat        = "Listening on http://%s%s\n"
)

func newServeCommand(env environment, configPath *string) *cobra.Command {
	var address string

	serveCommand := &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Long:  serveLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := env.workingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: *configPath,
			})
			if loadError != nil {
				return loadError
			}
			if command.Flags().Changed(addressFlagName) {
				applicationConfiguration.Serve.Address = address
			}
			pipeline, pipelineError := buildAnalysisPipeline(env, workingDirectory, applicationConfiguration)
			if pipelineError != nil {
				return pipelineError
			}

			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := httpapi.NewServer(httpapi.Config{
				Address:  applicationConfiguration.Serve.ListenAddress(),
				Pipeline: pipeline,
				Logger:   env.logger,
			})
			return server.Run(ctx, func(boundAddress string) {
				fmt.Fprintf(command.OutOrStdout(), listeningFormat, boundAddress, httpapi.RunAnalysisPath)
			})
		},
	}
	serveCommand.Flags().StringVar(&address, addressFlagName, config.DefaultListenAddress, addressFlagDescription)
	return serveCommand
}

// buildAnalysisPipeline wires the script runner and, unless disabled, the report generator for projectDirectory.
func buildAnalysisPipeline(env environment, projectDirectory string, applicationConfiguration config.ApplicationConfiguration) (httpapi.AnalysisPipeline, error) {
	serveConfiguration := applicationConfiguration.Serve
	timeout, timeoutError := serveConfiguration.Script.TimeoutDuration()
	if timeoutError != nil {
		return httpapi.AnalysisPipeline{}, timeoutError
	}
	scriptDirectory := serveConfiguration.Script.WorkingDirectory
	switch {
	case scriptDirectory == "":
		scriptDirectory = projectDirectory
	case !filepath.IsAbs(scriptDirectory):
		scriptDirectory = filepath.Join(projectDirectory, scriptDirectory)
	}

	pipeline := httpapi.AnalysisPipeline{
		Runner: analysis.NewRunner(analysis.Config{
			Command:          serveConfiguration.Script.CommandLine(),
			WorkingDirectory: scriptDirectory,
			Timeout:          timeout,
		}, env.logger),
		RootDirectory: projectDirectory,
	}
	if !serveConfiguration.ReportEnabled() {
		return pipeline, nil
	}

	generateConfiguration := applicationConfiguration.Generate
	treeBuilder, builderError := newTreeBuilder(env, projectDirectory, generateConfiguration, nil)
	if builderError != nil {
		return httpapi.AnalysisPipeline{}, builderError
	}
	pipeline.Generator = commands.NewReportGenerator(
		treeBuilder,
		filesystem.NewOSService(),
		generateConfiguration.OutputFileName(),
		generateConfiguration.Title,
		env.logger,
	)
	return pipeline, nil
}
