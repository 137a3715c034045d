package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/treedoc/internal/config"
	"github.com/temirov/treedoc/internal/output"
	"github.com/temirov/treedoc/internal/types"
)

const (
	treeUse              = "tree [path]"
	treeAlias            = "t"
	treeShortDescription = "print the directory tree (" + treeAlias + ")"

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Print the tree of a directory without writing a report.
Use --format to select raw, json, or xml output.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the tree of ./site in XML format
  treedoc tree --format xml ./site

  # Exclude dist at any depth
  treedoc tree -e dist .`

	defaultPath              = "."
	formatFlagName           = "format"
	summaryFlagName          = "summary"
	formatFlagDescription    = "output format: raw, json, or xml"
	summaryFlagDescription   = "append a summary line to raw output"
	invalidFormatMessage     = "invalid format value '%s'"
	errorAbsolutePathFormat  = "abs failed for '%s': %w"
	errorPathMissingFormat   = "path '%s' does not exist"
	errorStatFormat          = "stat failed for '%s': %w"
	errorPathNotDirectoryFmt = "path '%s' is not a directory"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

func newTreeCommand(env environment, configPath *string) *cobra.Command {
	var outputFormat string
	var summaryEnabled bool
	var treeRenderOptions renderOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormatLower := strings.ToLower(strings.TrimSpace(outputFormat))
			if !isSupportedFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormat)
			}
			inputPath := defaultPath
			if len(arguments) == 1 {
				inputPath = arguments[0]
			}
			validatedPath, validationError := resolveAndValidateDirectory(inputPath)
			if validationError != nil {
				return validationError
			}
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
			generateConfiguration := applicationConfiguration.Generate
			if command.Flags().Changed(gitignoreFlagName) {
				useGitignore := treeRenderOptions.useGitignore
				generateConfiguration.UseGitignore = &useGitignore
			}

			treeBuilder, builderError := newTreeBuilder(env, validatedPath.AbsolutePath, generateConfiguration, treeRenderOptions.exclusions)
			if builderError != nil {
				return builderError
			}
			rootNode, buildError := treeBuilder.BuildTree(validatedPath.AbsolutePath)
			if buildError != nil {
				return buildError
			}
			rendered, renderError := renderTree(rootNode, outputFormatLower, summaryEnabled)
			if renderError != nil {
				return renderError
			}
			fmt.Fprint(command.OutOrStdout(), rendered)
			return deliverText(env, treeRenderOptions, rendered)
		},
	}

	treeCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerToggleFlags(treeCommand.Flags(), toggleFlag{target: &summaryEnabled, name: summaryFlagName, usage: summaryFlagDescription})
	addRenderFlags(treeCommand, &treeRenderOptions)
	return treeCommand
}

// renderTree encodes rootNode in format. Every encoding ends with a newline.
func renderTree(rootNode *types.TreeOutputNode, format string, withSummary bool) (string, error) {
	switch format {
	case types.FormatJSON:
		encoded, encodeError := output.RenderTreeJSON(rootNode)
		if encodeError != nil {
			return "", encodeError
		}
		return encoded + "\n", nil
	case types.FormatXML:
		encoded, encodeError := output.RenderTreeXML(rootNode)
		if encodeError != nil {
			return "", encodeError
		}
		return encoded + "\n", nil
	case types.FormatRaw:
		rendered := output.RenderTreeRaw(rootNode)
		if withSummary {
			rendered += output.FormatSummaryLine(output.SummarizeTree(rootNode)) + "\n"
		}
		return rendered, nil
	default:
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
}

// resolveAndValidateDirectory converts inputPath to absolute form and checks that it is an existing directory.
func resolveAndValidateDirectory(inputPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorPathNotDirectoryFmt, inputPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath}, nil
}
