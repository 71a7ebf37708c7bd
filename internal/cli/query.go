package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/finrel/internal/compiler"
)

// loadForQuery loads specs for a query command. Any load or compile error
// is a command error.
func loadForQuery(formatter *OutputFormatter, specsDir string) (*compiler.Specs, error) {
	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return nil, commandError(formatter, loadErr.Code, loadErr.Error())
		}
		return nil, commandError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}
	formatter.VerboseLog("Loaded %d CUE file(s) from %s", loadResult.FileCount, specsDir)
	return loadResult.Specs, nil
}

// queryCommand fills in the settings shared by hom, join and colimit.
func queryCommand(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}
