package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd, queueCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay queued offline mutations against the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		pending := a.cache.QueueSize()
		if pending == 0 {
			fmt.Println("queue empty, nothing to sync")
			return nil
		}
		if !a.online {
			return fmt.Errorf("backend unreachable, %d operations still queued", pending)
		}

		if err := a.engine.SyncQueue(context.Background()); err != nil {
			remaining := a.cache.QueueSize()
			return fmt.Errorf("synced %d of %d, then: %w", pending-remaining, pending, err)
		}
		fmt.Printf("synced %d operations\n", pending)
		return nil
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show pending offline mutations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		st := a.cache.LoadStore()
		if len(st.Queue) == 0 {
			fmt.Println("queue empty")
			return nil
		}
		fmt.Printf("%d pending operations%s\n", len(st.Queue), offlineSuffix(a))
		for i, op := range st.Queue {
			fmt.Printf("%3d. %s\n", i+1, op.Kind())
		}
		return nil
	},
}
