package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ionut-t/nlsql/internal/constants"
	"github.com/ionut-t/nlsql/pkg/db"
	"github.com/spf13/cobra"
)

var errGenerationFailed = errors.New("query generation failed")

func askCmd(rt *runtime) *cobra.Command {
	var (
		tableFile string
		dsn       string
		schema    string
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Generate a query for a single question and print it",
		Long: "Generate a read-only SQL query for one question. The table schema is read\n" +
			"from --table (a file, or - for stdin) or described from a live database with --dsn.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			table, err := loadTableContext(cmd, tableFile, dsn, schema)
			if err != nil {
				return err
			}

			p, err := rt.pipeline(cmd.Context(), nil)
			if err != nil {
				return err
			}

			result := p.Run(cmd.Context(), question, table)
			fmt.Fprintln(cmd.OutOrStdout(), result.String())

			if result.IsFailure() {
				return errGenerationFailed
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&tableFile, "table", "t", "", "File holding the table schema, - for stdin")
	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN used to describe the drawing table")
	cmd.Flags().StringVar(&schema, "schema", "public", "Database schema holding the drawing table")
	cmd.MarkFlagsMutuallyExclusive("table", "dsn")
	cmd.MarkFlagsOneRequired("table", "dsn")

	return cmd
}

func loadTableContext(cmd *cobra.Command, tableFile, dsn, schema string) (string, error) {
	if dsn != "" {
		conn, err := db.Open(cmd.Context(), dsn)
		if err != nil {
			return "", err
		}
		defer conn.Close()

		return db.DescribeTable(cmd.Context(), conn, schema, constants.Table)
	}

	var data []byte
	var err error
	if tableFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(tableFile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read table schema: %w", err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no table provided")
	}

	return string(data), nil
}
