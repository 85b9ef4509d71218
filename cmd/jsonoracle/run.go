package main

import (
	"context"
	"fmt"
	"time"

	"jsonoracle/internal/config"
	"jsonoracle/internal/db"
	"jsonoracle/internal/runner"
	"jsonoracle/internal/util"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRunCmd() *cobra.Command {
	var failOnDisagree bool

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Evaluate every file under the given paths",
		Long:  "Walks files and directories, evaluates each input with every configured backend and writes a case for each new disagreement signature.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, failOnDisagree)
		},
	}

	cmd.Flags().BoolVar(&failOnDisagree, "fail-on-disagree", false, "Exit non-zero when any input split the backends")

	return cmd
}

func runRun(cmd *cobra.Command, paths []string, failOnDisagree bool) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	util.Infof("starting jsonoracle with %d worker(s)", cfg.Workers)
	if data, err := yaml.Marshal(&cfg); err == nil {
		util.Highlightf("config:\n%s", string(data))
	}
	if hasBackend(cfg, "mysql") {
		if err := checkServer(ctx, cfg.MySQL); err != nil {
			return err
		}
	}

	r, err := runner.New(cfg)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(r, "runner")

	stats, err := r.Run(ctx, paths)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			util.Warnf("interrupted: %s", stats)
			return nil
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), stats)
	if failOnDisagree && stats.Disagree+stats.Fault > 0 {
		return errors.Errorf("%d disagreement(s), %d fault(s)", stats.Disagree, stats.Fault)
	}
	return nil
}

// checkServer waits for the server behind the mysql backend and logs its
// version.
func checkServer(ctx context.Context, cfg config.MySQLConfig) error {
	conn, err := db.Open(cfg.DSN)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(conn, "server check")
	if err := db.EnsureReachable(ctx, conn, 3, time.Second); err != nil {
		return err
	}
	v, err := conn.Version(ctx)
	if err != nil {
		return errors.Wrap(err, "server version")
	}
	util.Infof("mysql backend server %s version %s", conn.Addr, v)
	return nil
}
