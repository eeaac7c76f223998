package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fairq/fairq/lib/consts"
)

func getVersionCmd() *cobra.Command {
	// versionCmd represents the version command.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and exit.`,
		Run: func(_ *cobra.Command, _ []string) {
			fprintf(stdout, "fairq v%s\n", consts.FullVersion())
		},
	}
	return versionCmd
}
