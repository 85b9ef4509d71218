package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/config"
	"jsonoracle/internal/oracle"
	"jsonoracle/internal/report"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var (
		asJSON         bool
		failOnDisagree bool
	)

	cmd := &cobra.Command{
		Use:   "eval [file|-]...",
		Short: "Evaluate single inputs and print the verdict",
		Long:  "Evaluates each named file, or standard input when no file or '-' is given, and prints one verdict per input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args, asJSON, failOnDisagree)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print verdicts as JSON")
	cmd.Flags().BoolVar(&failOnDisagree, "fail-on-disagree", false, "Exit non-zero when a verdict is not an agreement")

	return cmd
}

type evalOutput struct {
	Source          string         `json:"source"`
	Status          oracle.Status  `json:"status"`
	Signature       string         `json:"signature"`
	AcceptanceSplit bool           `json:"acceptance_split"`
	Verdict         oracle.Verdict `json:"verdict"`
}

func runEval(cmd *cobra.Command, args []string, asJSON, failOnDisagree bool) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	orc, err := buildOracle(cfg)
	if err != nil {
		return err
	}
	defer backend.CloseAll(orc.Adapters())

	if len(args) == 0 {
		args = []string{"-"}
	}
	out := cmd.OutOrStdout()
	failed := 0
	for i, source := range args {
		input, err := readEvalInput(cmd, source, cfg.MaxInputBytes)
		if err != nil {
			return err
		}
		v := orc.Evaluate(input)
		if v.Status() == oracle.StatusDisagree || v.Status() == oracle.StatusFault {
			failed++
		}
		if asJSON {
			if err := writeEvalJSON(out, source, v); err != nil {
				return err
			}
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "input: %s (%d bytes)\n", source, len(input))
		report.Render(out, v)
	}
	if failOnDisagree && failed > 0 {
		return errors.Errorf("%d of %d input(s) did not agree", failed, len(args))
	}
	return nil
}

func buildOracle(cfg config.Config) (*oracle.Oracle, error) {
	adapters, err := backend.Build(cfg)
	if err != nil {
		return nil, err
	}
	orc := oracle.New(oracle.WithParallel(cfg.Parallel))
	if err := orc.RegisterAll(adapters); err != nil {
		backend.CloseAll(adapters)
		return nil, err
	}
	return orc, nil
}

func readEvalInput(cmd *cobra.Command, source string, limit int) ([]byte, error) {
	var r io.Reader
	if source == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", source)
	}
	if len(data) > limit {
		return nil, errors.Errorf("%s exceeds max_input_bytes (%d)", source, limit)
	}
	return data, nil
}

func writeEvalJSON(w io.Writer, source string, v oracle.Verdict) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(evalOutput{
		Source:          source,
		Status:          v.Status(),
		Signature:       v.Signature(),
		AcceptanceSplit: v.AcceptanceSplit(),
		Verdict:         v,
	})
}
