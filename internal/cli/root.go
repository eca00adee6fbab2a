package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the treediff command tree
func NewRootCommand() *cobra.Command {
	global := &GlobalFlags{}
	flags := &CompareFlags{}

	cmd := &cobra.Command{
		Use:   "treediff LEFT RIGHT",
		Short: "Compare two directory trees by content",
		Long: `treediff walks two directory trees and reports every file that exists
only on the left, only on the right, or on both sides with different content.
Files are matched by relative path and compared byte for byte.

Exit codes: 0 complete, 1 usage error, 2 failed, 3 partial (some files or
directories could not be read), 4 cancelled (timeout or interrupt).`,
		Args: validateArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, global, flags)
		},
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// Add flags
	AddGlobalFlags(cmd, global)
	AddCompareFlags(cmd, flags)

	// Add commands
	cmd.AddCommand(NewConfigCommand(global))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
