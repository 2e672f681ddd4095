package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func columnsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the canonical columns and their localized names",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := rt.mapping()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, col := range m.Columns() {
				names := make([]string, 0, len(col.Translations))
				for _, t := range col.Translations {
					names = append(names, t.Locale+"="+t.Name)
				}
				fmt.Fprintf(out, "%-22s %s\n", col.Name, strings.Join(names, "  "))
			}

			return nil
		},
	}
}
