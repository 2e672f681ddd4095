package cmd

import (
	"fmt"

	"github.com/ionut-t/nlsql/internal/version"
	"github.com/spf13/cobra"
)

const logo = `
         _           _
 _ __  | | ___  __ _| |
| '_ \ | |/ __|/ _' | |
| | | || |\__ \ (_| | |
|_| |_||_||___/\__, |_|
                  |_|
`

func versionTemplate() string {
	versionTpl := logo + `
  Version        %s
  Commit         %s
  Release date   %s
`
	return fmt.Sprintf(versionTpl, version.Version(), version.Commit(), version.Date())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionTemplate())
		},
	}
}
