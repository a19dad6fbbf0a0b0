package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnodel/jtok/assemble"
	"github.com/arnodel/jtok/backupapp"
	"github.com/arnodel/jtok/encoding/json"
	"github.com/arnodel/jtok/filter"
	"github.com/arnodel/jtok/token"
)

// runBackupCommand builds and runs the cobra "backup"/"restore" commands
// that wire backupapp end to end (spec.md §6.3, §7's supplemented
// jtok backup/restore entry point). It's dispatched from main() before
// flag.Parse() runs, since these subcommands have nothing to do with the
// -in/-out pipeline flags the rest of the tool exposes.
func runBackupCommand(args []string) {
	root := &cobra.Command{
		Use:           "jtok",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "backup.toml", "path to the backupapp TOML config file")

	var listID string
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "back up one task list's tasks (and their attachments) to a local JSON file",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runBackup(configPath, listID)
		},
	}
	backupCmd.Flags().StringVar(&listID, "list", "", "task list ID to back up (required)")
	backupCmd.MarkFlagRequired("list")

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "print the contents of a backup file produced by jtok backup",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runRestore(configPath)
		},
	}

	root.AddCommand(backupCmd, restoreCmd)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runBackup streams a list's tasks from the configured task service,
// splices in their attachments via backupapp.AttachmentStore, and writes
// the result to the configured sink path.
func runBackup(configPath, listID string) error {
	cfg, err := backupapp.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := backupapp.NewTaskServiceClient(cfg.TaskService)
	store := &backupapp.AttachmentStore{Client: client, Dir: cfg.Attachments.Dir}

	ctx := context.Background()
	source := client.CreateTasksStream(ctx, listID)

	inject := filter.NewInjectEntry("attachment_paths", store.InjectLocalPaths(ctx))
	tasksStream := token.TransformStream(token.StartStream(source, nil), inject)

	sink := backupapp.NewFileSink(cfg.Sink.Path)
	if err := sink.Consume(tasksStream); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// runRestore reads back a file written by jtok backup with
// encoding/json.Decoder, assembles each top-level value with
// assemble.FullAssembler, and prints the assembled Go value of each one to
// stdout with fmt.Println (Go's default formatting, not JSON).
func runRestore(configPath string) error {
	cfg, err := backupapp.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	f, err := os.Open(cfg.Sink.Path)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	out := make(chan token.Token, 64)
	go func() {
		_ = decoder.Produce(out)
		close(out)
	}()

	buf := assemble.NewFullAssembler()
	for tok := range out {
		buf.Consume(tok)
		if buf.Done() {
			fmt.Println(buf.Current().ToGo())
		}
	}
	return nil
}
