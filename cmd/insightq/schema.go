package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/insightq/query"
	"github.com/vegasq/insightq/reader"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [kind]",
		Short: "List the columns of a dataset kind, or the kinds when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			reg := a.engine.Registry()

			if len(args) == 0 {
				res := &query.Result{Columns: []string{"kind", "columns"}}
				for _, name := range reg.KindNames() {
					res.Rows = append(res.Rows, query.Row{
						"kind":    query.String(name),
						"columns": query.Number(float64(len(reg.MustKind(name).Fields))),
					})
				}
				return a.write(cmd.OutOrStdout(), res)
			}

			kind, ok := reg.Kind(args[0])
			if !ok {
				return fmt.Errorf("unknown dataset kind %q: want one of %s", args[0], strings.Join(reg.KindNames(), ", "))
			}
			res := &query.Result{Columns: []string{"name", "key", "type"}}
			for _, f := range kind.Fields {
				res.Rows = append(res.Rows, query.Row{
					"name": query.String(f.Name),
					"key":  query.String(f.Key),
					"type": query.String(f.Type.String()),
				})
			}
			return a.write(cmd.OutOrStdout(), res)
		},
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.parquet>",
		Short: "Show the column layout of a parquet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			path := args[0]
			if strings.ContainsAny(path, "*?[]") {
				matches, err := filepath.Glob(path)
				if err != nil {
					return fmt.Errorf("invalid glob pattern: %w", err)
				}
				if len(matches) == 0 {
					return fmt.Errorf("no files match pattern: %s", path)
				}
				path = matches[0]
				if len(matches) > 1 {
					fmt.Fprintf(cmd.ErrOrStderr(), "# Showing schema from: %s (%d files matched)\n", path, len(matches))
				}
			}

			infos, err := reader.InspectParquet(path)
			if err != nil {
				return err
			}

			res := &query.Result{Columns: []string{"name", "type", "physical_type", "optional", "repeated"}}
			for _, info := range infos {
				res.Rows = append(res.Rows, query.Row{
					"name":          query.String(info.Name),
					"type":          query.String(info.Type),
					"physical_type": query.String(info.PhysicalType),
					"optional":      query.String(strconv.FormatBool(info.Optional)),
					"repeated":      query.String(strconv.FormatBool(info.Repeated)),
				})
			}
			return a.write(cmd.OutOrStdout(), res)
		},
	}
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "Load the configured datasets and list them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), datasetsResult(a))
		},
	}
}

func datasetsResult(a *app) *query.Result {
	res := &query.Result{Columns: []string{"id", "kind", "rows"}}
	for _, info := range a.engine.Catalog().List() {
		res.Rows = append(res.Rows, query.Row{
			"id":   query.String(info.ID),
			"kind": query.String(info.Kind),
			"rows": query.Number(float64(info.NumRows)),
		})
	}
	return res
}
