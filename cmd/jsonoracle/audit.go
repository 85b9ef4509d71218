package main

import (
	"fmt"
	"strings"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/mapping"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Print every mapping table and check it is complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, only)
		},
	}

	cmd.Flags().StringVar(&only, "backend", "", "Only print this backend's table")

	return cmd
}

func runAudit(cmd *cobra.Command, only string) error {
	tables := make(map[string]mapping.Describer)
	for _, t := range backend.Tables() {
		tables[t.Backend()] = t
	}
	var problems []string
	for _, name := range backend.Names() {
		if _, ok := tables[name]; !ok {
			problems = append(problems, name+": no mapping table")
		}
	}

	out := cmd.OutOrStdout()
	printed := 0
	for _, t := range backend.Tables() {
		if only != "" && t.Backend() != only {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		printed++
		fmt.Fprintf(out, "%s\n", t.Backend())
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Native code", "Outcome"})
		table.SetBorder(false)
		table.SetCenterSeparator("")
		for _, e := range t.Entries() {
			if !e.Outcome.Valid() {
				problems = append(problems, fmt.Sprintf("%s: code %s unmapped", t.Backend(), e.Code))
			}
			table.Append([]string{e.Code, e.Outcome.String()})
		}
		table.Render()
	}
	if only != "" && printed == 0 {
		return &backend.UnknownBackendError{Name: only}
	}
	if len(problems) > 0 {
		return errors.Errorf("audit failed:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}
