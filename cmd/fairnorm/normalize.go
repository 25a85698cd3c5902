package main

import (
	"github.com/spf13/cobra"

	"github.com/crimson-sun/fairnorm/internal/connector"
	"github.com/crimson-sun/fairnorm/internal/model"
	"github.com/crimson-sun/fairnorm/internal/output"
	"github.com/crimson-sun/fairnorm/internal/output/stdout"
)

func newNormalizeCommand(a *app) *cobra.Command {
	var (
		hint      string
		pretty    bool
		verbosity string
	)
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize NDJSON raw records from a file or stdin to NDJSON on stdout",
		Long: "Reads one RawRecord JSON object per line and writes one NormalizedRecord per line.\n" +
			"No duplicate detection is done; use run for the full pipeline.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinOrFile(args)
			if err := checkFile(path); err != nil {
				return err
			}
			if !cmd.Flags().Changed("hint") {
				hint = a.cfg.Engine.SourceHint
			}
			if !cmd.Flags().Changed("pretty") {
				pretty = a.cfg.Output.Pretty
			}
			if !cmd.Flags().Changed("verbosity") {
				verbosity = a.cfg.Output.Verbosity
			}
			v, err := output.ParseVerbosity(verbosity)
			if err != nil {
				return err
			}

			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			ctor, err := connector.Get("ndjson")
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ch, err := ctor().Stream(ctx, connector.Config{
				Provider: "ndjson",
				Path:     path,
				Reader:   cmd.InOrStdin(),
			})
			if err != nil {
				return err
			}
			out := stdout.NewWriter(cmd.OutOrStdout(), v, pretty)
			defer out.Close()
			for raw := range ch {
				if err := out.Write(ctx, eng.Normalize(raw, model.SourceHint(hint))); err != nil {
					return err
				}
			}
			return ctx.Err()
		},
	}
	cmd.Flags().StringVar(&hint, "hint", "", "source hint applied to every record (government)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().StringVar(&verbosity, "verbosity", "standard", "output fields (minimal, standard)")
	return cmd
}
