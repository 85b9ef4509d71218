package main

import (
	"fmt"

	"jsonoracle/internal/report"
	"jsonoracle/internal/util"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newCasesCmd() *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Summarize the recorded cases by signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(cmd, input, output)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Report directory (default report.output_dir)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Also write the full index as JSON to this file")

	return cmd
}

func runCases(cmd *cobra.Command, input, output string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	if input == "" {
		input = cfg.Report.OutputDir
	}
	idx, skipped, err := report.LoadIndex(input)
	if err != nil {
		return err
	}
	for _, path := range skipped {
		util.Warnf("skip unreadable summary %s", path)
	}

	out := cmd.OutOrStdout()
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Cases", "Status", "Signature", "Latest"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	for _, sc := range idx.BySignature() {
		table.Append([]string{fmt.Sprint(sc.Cases), sc.Status, sc.Signature, sc.Latest})
	}
	table.Render()
	fmt.Fprintf(out, "%d case(s) under %s\n", len(idx.Cases), input)

	if output != "" {
		if err := report.WriteIndex(output, idx); err != nil {
			return err
		}
		util.Infof("index written to %s", output)
	}
	return nil
}
