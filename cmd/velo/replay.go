package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/velodom/velo/pkg/protocol"
	"github.com/velodom/velo/pkg/replay"
)

func replayCmd() *cobra.Command {
	var dir, session string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Print an archived session's op batches",
		Long: `Walk an archived session in sequence order and print every batch.

Each line is one op: its kind, target ref, and payload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := replay.NewDiskStore(dir)
			if err != nil {
				return err
			}
			return replay.Replay(context.Background(), store, session, func(b *protocol.Batch) error {
				fmt.Printf("batch %d (%d ops)\n", b.Seq, len(b.Ops))
				for _, op := range b.Ops {
					fmt.Printf("  %-13s ref=%d", op.Kind, op.Ref)
					if op.Parent != 0 {
						fmt.Printf(" parent=%d", op.Parent)
					}
					if op.Key != "" {
						fmt.Printf(" key=%q", op.Key)
					}
					if op.Value != "" {
						fmt.Printf(" value=%q", op.Value)
					}
					if len(op.Events) > 0 {
						fmt.Printf(" events=%v", op.Events)
					}
					fmt.Println()
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "velo-archive", "Archive directory")
	cmd.Flags().StringVarP(&session, "session", "s", "default", "Session name")
	return cmd
}
