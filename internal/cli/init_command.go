package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/treedoc/internal/config"
	"github.com/temirov/treedoc/internal/utils"
)

const (
	initUse              = "init"
	initShortDescription = "write a default configuration file"

	initLongDescription = `Write the default configuration to ./` + utils.ConfigFileName + `,
or to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + ` with --global.`

	globalFlagName        = "global"
	forceFlagName         = "force"
	globalFlagDescription = "write the global configuration instead of the local one"
	forceFlagDescription  = "overwrite an existing configuration file"
	configWrittenFormat   = "Configuration written to %s\n"
)

func newInitCommand(env environment) *cobra.Command {
	var writeGlobal bool
	var overwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := env.workingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            overwrite,
				WorkingDirectory: workingDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configWrittenFormat, destinationPath)
			return nil
		},
	}
	registerToggleFlags(initCommand.Flags(),
		toggleFlag{target: &writeGlobal, name: globalFlagName, usage: globalFlagDescription},
		toggleFlag{target: &overwrite, name: forceFlagName, usage: forceFlagDescription},
	)
	return initCommand
}
