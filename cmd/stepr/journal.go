package main

import (
	"encoding/json"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/mark3labs/stepr/internal/journal"
	"github.com/mark3labs/stepr/internal/nats"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal <wizard-name>",
	Short: "Print the journaled state of a wizard",
	Long: `Replay the journal of a wizard and print the reduced state as JSON:
selected step, interacted steps and field values.`,
	Args: cobra.ExactArgs(1),
	RunE: runJournal,
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	emb, err := nats.Open(ctx, journalDir(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = emb.Close() }()

	state, err := journal.NewStore(emb.JS, emb.Stream).LoadState(ctx, slug.Make(args[0]))
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
