package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "query [sentence]",
		Short: "Run a sentence query (read from stdin when no argument is given)",
		Example: `  insightq -d courses:courses:courses.parquet query \
    'In courses dataset courses grouped by Department, find all entries, show Department and avgGrade, where avgGrade is the AVG of Average; sort in descending order by avgGrade.'
  insightq query --explain 'In rooms dataset rooms, find all entries, show Full Name.'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sentence, err := argOrStdin(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			a, err := setup(cmd)
			if err != nil {
				return err
			}

			if explain {
				obj, err := a.engine.Explain(sentence)
				if err != nil {
					return err
				}
				return writeIndentedJSON(cmd.OutOrStdout(), obj)
			}

			res, err := a.engine.QuerySentence(sentence)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print the equivalent JSON object query instead of running it")
	return cmd
}

func newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file.json]",
		Short: "Run a JSON object query from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read query: %w", err)
			}

			a, err := setup(cmd)
			if err != nil {
				return err
			}

			res, err := a.engine.QueryJSON(data)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), res)
		},
	}
}

// argOrStdin joins args into one sentence, or reads stdin when args is empty
func argOrStdin(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	sentence := strings.TrimSpace(string(data))
	if sentence == "" {
		return "", fmt.Errorf("missing query sentence")
	}
	return sentence, nil
}

func writeIndentedJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
