package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/temirov/codetree/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./.codetree.yaml, or to
~/.codetree/config.yaml with --global. An existing file is kept unless --force is given.`
	globalFlagName              = "global"
	globalFlagDescription       = "write the global configuration instead of the local one"
	forceFlagName               = "force"
	forceFlagDescription        = "overwrite an existing configuration file"
	configurationWrittenMessage = "Configuration written to %s\n"
)

func createInitCommand(app *application) *cobra.Command {
	var useGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if useGlobal {
				target = config.InitTargetGlobal
			}
			destination, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			color.New(color.FgGreen).Fprintf(app.stderr, configurationWrittenMessage, destination)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &useGlobal, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
