// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treedoc/internal/commands"
	"github.com/temirov/treedoc/internal/config"
	"github.com/temirov/treedoc/internal/output"
	"github.com/temirov/treedoc/internal/services/clipboard"
	"github.com/temirov/treedoc/internal/services/filesystem"
	"github.com/temirov/treedoc/internal/services/gitignore"
	"github.com/temirov/treedoc/internal/tokenizer"
	"github.com/temirov/treedoc/internal/utils"
)

const (
	rootUse              = "treedoc"
	rootShortDescription = "render a directory tree into a Markdown report"

	rootLongDescription = `treedoc documents the structure of the current directory.
Run without arguments to write the tree into README.md. Use "treedoc tree" to
print a tree, "treedoc serve" to expose the analysis trigger over HTTP, and
"treedoc init" to write a configuration file.`

	rootUsageExample = `  # Regenerate README.md for the current directory
  treedoc

  # Exclude a build directory and copy the report to the clipboard
  treedoc -e dist --copy`

	versionTemplate = "treedoc version: {{.Version}}\n"

	exclusionFlagName      = "exclude"
	exclusionFlagShorthand = "e"
	outputFlagName         = "output"
	titleFlagName          = "title"
	gitignoreFlagName      = "gitignore"
	copyFlagName           = "copy"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	configFlagName         = "config"

	exclusionFlagDescription = "exclude entries with this exact name at any depth (repeatable)"
	outputFlagDescription    = "report file written inside the documented directory"
	titleFlagDescription     = "heading title of the report"
	gitignoreFlagDescription = "also skip entries matched by .gitignore files"
	copyFlagDescription      = "copy the generated text to the clipboard"
	tokensFlagDescription    = "log the token count of the generated text"
	modelFlagDescription     = "tokenizer model used by --tokens"
	configFlagDescription    = "path to a configuration file (defaults to ./" + utils.ConfigFileName + ")"

	reportWrittenFormat         = "Report written to %s\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"

	infoCopiedMessage     = "copied to clipboard"
	infoTokenCountMessage = "token count"
)

// environment carries the collaborators shared by every command.
type environment struct {
	logger              *zap.Logger
	copier              clipboard.Copier
	newCounter          func(tokenizer.Config) (tokenizer.Counter, string, error)
	getWorkingDirectory func() (string, error)
}

func newEnvironment(logger *zap.Logger) environment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return environment{
		logger:              logger,
		copier:              clipboard.NewService(),
		newCounter:          tokenizer.NewCounter,
		getWorkingDirectory: os.Getwd,
	}
}

func (env environment) workingDirectory() (string, error) {
	workingDirectory, workingDirectoryError := env.getWorkingDirectory()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return workingDirectory, nil
}

// renderOptions holds the flags shared by commands that produce a tree.
type renderOptions struct {
	exclusions   []string
	useGitignore bool
	copyOutput   bool
	countTokens  bool
	model        string
}

func addRenderFlags(command *cobra.Command, options *renderOptions) {
	command.Flags().StringArrayVarP(&options.exclusions, exclusionFlagName, exclusionFlagShorthand, nil, exclusionFlagDescription)
	command.Flags().StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerToggleFlags(command.Flags(),
		toggleFlag{target: &options.useGitignore, name: gitignoreFlagName, usage: gitignoreFlagDescription},
		toggleFlag{target: &options.copyOutput, name: copyFlagName, usage: copyFlagDescription},
		toggleFlag{target: &options.countTokens, name: tokensFlagName, usage: tokensFlagDescription},
	)
}

// Execute runs the treedoc application.
func Execute(logger *zap.Logger) error {
	rootCommand := newRootCommand(newEnvironment(logger))
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// newRootCommand builds the root Cobra command. Running it without a
// subcommand generates the report for the working directory.
func newRootCommand(env environment) *cobra.Command {
	var configPath string
	var generateOutputFileName string
	var generateTitle string
	var generateRenderOptions renderOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Version:      utils.GetApplicationVersion(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := env.workingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: configPath,
			})
			if loadError != nil {
				return loadError
			}
			generateConfiguration := applicationConfiguration.Generate
			if command.Flags().Changed(outputFlagName) {
				generateConfiguration.Output = generateOutputFileName
			}
			if command.Flags().Changed(titleFlagName) {
				generateConfiguration.Title = generateTitle
			}
			if command.Flags().Changed(gitignoreFlagName) {
				useGitignore := generateRenderOptions.useGitignore
				generateConfiguration.UseGitignore = &useGitignore
			}
			return runGenerate(command, env, workingDirectory, generateConfiguration, generateRenderOptions)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().StringVar(&configPath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().StringVar(&generateOutputFileName, outputFlagName, utils.DefaultReportFileName, outputFlagDescription)
	rootCommand.Flags().StringVar(&generateTitle, titleFlagName, output.DefaultDocumentTitle, titleFlagDescription)
	addRenderFlags(rootCommand, &generateRenderOptions)

	rootCommand.AddCommand(
		newTreeCommand(env, &configPath),
		newServeCommand(env, &configPath),
		newInitCommand(env),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func runGenerate(command *cobra.Command, env environment, rootDirectoryPath string, generateConfiguration config.GenerateConfiguration, options renderOptions) error {
	treeBuilder, builderError := newTreeBuilder(env, rootDirectoryPath, generateConfiguration, options.exclusions)
	if builderError != nil {
		return builderError
	}
	generator := commands.NewReportGenerator(
		treeBuilder,
		filesystem.NewOSService(),
		generateConfiguration.OutputFileName(),
		generateConfiguration.Title,
		env.logger,
	)
	result, generateError := generator.Generate(rootDirectoryPath)
	if generateError != nil {
		return generateError
	}
	fmt.Fprintf(command.OutOrStdout(), reportWrittenFormat, result.OutputPath)
	fmt.Fprintln(command.OutOrStdout(), output.FormatSummaryLine(result.Summary))
	return deliverText(env, options, result.Document)
}

// newTreeBuilder assembles the ignore set and optional .gitignore filter for rootDirectoryPath.
func newTreeBuilder(env environment, rootDirectoryPath string, generateConfiguration config.GenerateConfiguration, exclusions []string) (*commands.TreeBuilder, error) {
	ignoreNames := config.ResolveIgnoreNames(generateConfiguration.Ignore, exclusions, generateConfiguration.OutputFileName())
	treeBuilder := commands.NewTreeBuilder(filesystem.NewOSService(), ignoreNames, env.logger)
	if generateConfiguration.GitignoreEnabled() {
		filter, filterError := gitignore.NewFilter(rootDirectoryPath)
		if filterError != nil {
			return nil, filterError
		}
		treeBuilder.Filter = filter
	}
	return treeBuilder, nil
}

// deliverText copies and measures produced text as requested by the flags.
func deliverText(env environment, options renderOptions, text string) error {
	if options.copyOutput {
		if copyError := env.copier.Copy(text); copyError != nil {
			return copyError
		}
		env.logger.Info(infoCopiedMessage, zap.Int("bytes", len(text)))
	}
	if options.countTokens {
		counter, encodingName, counterError := env.newCounter(tokenizer.Config{Model: strings.TrimSpace(options.model)})
		if counterError != nil {
			return counterError
		}
		countResult, countError := tokenizer.CountDocument(counter, text)
		if countError != nil {
			return countError
		}
		env.logger.Info(infoTokenCountMessage,
			zap.Int("tokens", countResult.Tokens),
			zap.String("model", encodingName),
		)
	}
	return nil
}
