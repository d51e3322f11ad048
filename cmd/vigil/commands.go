package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vigil-run/vigil"
	"github.com/vigil-run/vigil/internal/config"
	"github.com/vigil-run/vigil/internal/logger"
	"github.com/vigil-run/vigil/internal/registry"
	"github.com/vigil-run/vigil/internal/supervisor"
)

// buildRoot creates the CLI tree. The bare invocation is the sweep: cron
// calls it every tick and it checks and restarts every registered command.
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	runFlags := &RunFlags{}
	removeFlags := &RemoveFlags{}

	root := &cobra.Command{
		Use:   "vigil",
		Short: "Keep registered commands running",
		Long: `Vigil is a minimal cron-driven process supervisor. Register a command
with 'vigil run', then invoke plain 'vigil' periodically: every invocation
checks each registered command, restarts the dead ones, and sends a
notification when a command fails too often within one hour.

Examples:
  vigil run "myserver --port 8080"
  vigil run "worker.sh" --max_failures=3 --notification_recipient=ops@example.com
  vigil list
  vigil remove "worker.sh"
  vigil                             # sweep, typically from crontab`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, closer, err := setup(globalFlags)
			if err != nil {
				return err
			}
			defer closer()
			return sup.Sweep(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "path to TOML config file (optional)")
	root.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Register a command and start it if not already running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, closer, err := setup(globalFlags)
			if err != nil {
				return err
			}
			defer closer()
			return sup.Run(cmd.Context(), args[0], supervisor.RunOptions{
				MaxFailures:           runFlags.MaxFailures,
				NotificationRecipient: runFlags.NotificationRecipient,
			})
		},
	}
	runCmd.Flags().IntVar(&runFlags.MaxFailures, "max_failures", 0,
		fmt.Sprintf("failures within one hour that trigger a notification (default %d)", registry.DefaultMaxFailures))
	runCmd.Flags().StringVar(&runFlags.NotificationRecipient, "notification_recipient", "",
		"email address to notify on frequent failures")

	removeCmd := &cobra.Command{
		Use:   "remove <command>",
		Short: "Remove a command from supervision",
		Long: `Remove deletes the command's registry entry. Its failure history is kept
on disk (and silently reused if the same command is registered again) unless
--purge is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, closer, err := setup(globalFlags)
			if err != nil {
				return err
			}
			defer closer()
			return sup.Remove(cmd.Context(), args[0], removeFlags.Purge)
		},
	}
	removeCmd.Flags().BoolVar(&removeFlags.Purge, "purge", false, "also delete the command's failure history")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered commands with a failure summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, closer, err := setup(globalFlags)
			if err != nil {
				return err
			}
			defer closer()
			sums, err := sup.List(cmd.Context())
			if err != nil {
				return err
			}
			printSummaries(sums)
			return nil
		},
	}

	root.AddCommand(runCmd, removeCmd, listCmd)
	return root
}

// setup resolves config, installs logging and builds the supervisor.
func setup(gf *GlobalFlags) (*supervisor.Supervisor, func(), error) {
	cfg, err := config.Load(gf.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Setup(gf.Debug || cfg.Debug, cfg.Log)
	if err := cfg.EnsureDirs(); err != nil {
		return nil, nil, err
	}
	return vigil.New(cfg)
}

func printSummaries(sums []supervisor.Summary) {
	if len(sums) == 0 {
		fmt.Println("no commands registered")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Command", "PID", "Status", "Fails 1h", "Fails Today", "Fails Total")
	for _, s := range sums {
		status := "dead"
		if s.Alive {
			status = "running"
		}
		pid := "-"
		if s.PID > 0 {
			pid = strconv.Itoa(s.PID)
		}
		table.Append(
			s.ID,
			s.Command,
			pid,
			status,
			strconv.Itoa(s.FailuresLastHour),
			strconv.Itoa(s.FailuresToday),
			strconv.Itoa(s.FailuresTotal),
		)
	}
	_ = table.Render()
}
