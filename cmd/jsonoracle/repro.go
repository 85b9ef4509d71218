package main

import (
	"fmt"

	"jsonoracle/internal/repro"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newReproCmd() *cobra.Command {
	var (
		repeat         int
		configBackends bool
	)

	cmd := &cobra.Command{
		Use:   "repro <case-dir>...",
		Short: "Re-evaluate stored cases and report drift",
		Long:  "Loads input.bin and verdict.json from each case directory, evaluates the input again and lists backends whose result changed or varies between runs.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepro(cmd, args, repeat, configBackends)
		},
	}

	cmd.Flags().IntVarP(&repeat, "repeat", "n", 3, "Evaluations per case")
	cmd.Flags().BoolVar(&configBackends, "config-backends", false, "Use the configured backends instead of the recorded ones")

	return cmd
}

func runRepro(cmd *cobra.Command, dirs []string, repeat int, configBackends bool) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	drifted := 0
	for i, dir := range dirs {
		res, err := repro.Run(cfg, repro.Options{
			CaseDir:           dir,
			Repeat:            repeat,
			UseConfigBackends: configBackends,
		})
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		res.Write(out)
		if !res.Reproduced() {
			drifted++
		}
	}
	if drifted > 0 {
		return errors.Errorf("%d of %d case(s) drifted", drifted, len(dirs))
	}
	return nil
}
