package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const replHelp = `Enter a query sentence ending with "." or one of:
  .datasets          list loaded datasets
  .load id:kind:path load a dataset
  .explain <query>   print the JSON object form of a sentence
  .json <object>     run a JSON object query
  .help              show this help
  .quit              exit`

var replCommands = []string{".datasets", ".load ", ".explain ", ".json ", ".help", ".quit"}

func newReplCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive sentence shell with history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{}))
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						a.logger.Error("metrics server stopped", "error", err)
					}
				}()
			}

			return a.repl(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	return cmd
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".insightq_history")
}

func (a *app) repl(out io.Writer) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var matches []string
		for _, c := range replCommands {
			if strings.HasPrefix(c, input) {
				matches = append(matches, c)
			}
		}
		return matches
	})

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	fmt.Fprintln(out, replHelp)
	for {
		input, err := line.Prompt("insightq> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ".quit" || input == ".exit" {
			break
		}
		if err := a.eval(out, input); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}

	if history != "" {
		if f, err := os.Create(history); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}
	return nil
}

// eval runs one REPL input line
func (a *app) eval(out io.Writer, input string) error {
	command, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch command {
	case ".help":
		fmt.Fprintln(out, replHelp)
		return nil
	case ".datasets":
		return a.write(out, datasetsResult(a))
	case ".load":
		dsFlag, err := parseDatasetFlag(rest)
		if err != nil {
			return err
		}
		ds, err := a.engine.Load(dsFlag.ID, dsFlag.Kind, dsFlag.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "loaded %s (%s): %d rows\n", ds.ID, ds.Kind, len(ds.Rows))
		return nil
	case ".explain":
		obj, err := a.engine.Explain(rest)
		if err != nil {
			return err
		}
		return writeIndentedJSON(out, obj)
	case ".json":
		res, err := a.engine.QueryJSON([]byte(rest))
		if err != nil {
			return err
		}
		return a.write(out, res)
	}

	if strings.HasPrefix(command, ".") {
		return fmt.Errorf("unknown command %s (try .help)", command)
	}

	res, err := a.engine.QuerySentence(input)
	if err != nil {
		return err
	}
	return a.write(out, res)
}
