package main

import (
	"fmt"
	"os"
	"path/filepath"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/timing"
	"jsonoracle/internal/util"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var repeat int

	cmd := &cobra.Command{
		Use:   "bench <file>...",
		Short: "Measure parse time per backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, args, repeat)
		},
	}

	cmd.Flags().IntVarP(&repeat, "repeat", "n", 0, "Runs per backend and file (default bench.repeat)")

	return cmd
}

func runBench(cmd *cobra.Command, files []string, repeat int) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	if repeat <= 0 {
		repeat = cfg.Bench.Repeat
	}
	adapters, err := backend.Build(cfg)
	if err != nil {
		return err
	}
	defer backend.CloseAll(adapters)

	cal := timing.Calibrate(cfg.Bench.CalibrationRepeat)
	util.Infof("timing overhead %s over %d calls", cal.Overhead, cfg.Bench.CalibrationRepeat)

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"File", "Bytes", "Backend", "Outcome", "Best ns/B", "Avg ns/B", "Best GB/s", "Margin GB/s"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	for _, path := range files {
		input, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "read bench input")
		}
		for _, a := range adapters {
			expected := a.Parse(input)
			res, err := timing.Measure(cal, repeat, len(input), func() bool {
				return a.Parse(input) == expected
			})
			if err != nil {
				return errors.Wrapf(err, "%s on %s", a.Name(), path)
			}
			table.Append([]string{
				filepath.Base(path),
				fmt.Sprint(len(input)),
				a.Name(),
				expected.String(),
				fmt.Sprintf("%.3f", res.BestNsPerByte()),
				fmt.Sprintf("%.3f", res.AvgNsPerByte()),
				fmt.Sprintf("%.3f", res.BestGBps()),
				fmt.Sprintf("%.3f", res.MarginGBps()),
			})
		}
	}
	table.Render()
	return nil
}
