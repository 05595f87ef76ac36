package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/bizsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
)

// NewSnapshotCommand creates the snapshot command with subcommands
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"save"},
		Short:   "Manage saved games",
		Long: `Games live in save slots in the database. Snapshots can also be exported
to and imported from zstd-compressed files.

Examples:
  bizsim snapshot list
  bizsim snapshot copy friday
  bizsim snapshot export --file friday.snap.zst
  bizsim snapshot import --file friday.snap.zst --slot replay
  bizsim snapshot delete replay`,
	}

	cmd.AddCommand(newSnapshotListCommand())
	cmd.AddCommand(newSnapshotCopyCommand())
	cmd.AddCommand(newSnapshotExportCommand())
	cmd.AddCommand(newSnapshotImportCommand())
	cmd.AddCommand(newSnapshotDeleteCommand())

	return cmd
}

func newSnapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List save slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, true)
			if err != nil {
				return err
			}
			defer s.Close()

			infos, err := s.store.List(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(infos)
			}
			tw := newTable("Save slots", "", "Slot", "Game time", "Saved", "Size")
			for _, info := range infos {
				marker := ""
				if info.Slot == s.slot {
					marker = "*"
				}
				tw.AppendRow(table.Row{marker, info.Slot, info.Clock, info.SavedAt.Local().Format(time.DateTime),
					fmt.Sprintf("%d B", info.SizeBytes)})
			}
			tw.Render()
			return nil
		},
	}
}

func newSnapshotCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <target-slot>",
		Short: "Copy the current slot to another slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return inspect(ctx, func(s *session) error {
				resp, err := s.send(ctx, &commands.SaveSnapshotCommand{Slot: args[0]})
				if err != nil {
					return err
				}
				info := resp.(*commands.SnapshotResponse).Info
				fmt.Printf("Copied %q to %q (%s)\n", s.slot, info.Slot, info.Clock)
				return nil
			})
		},
	}
}

func newSnapshotExportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current slot to a compressed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.Context(), func(s *session) error {
				if file == "" {
					file = s.slot + persistence.SnapshotFileExt
				}
				size, err := persistence.WriteSnapshotFile(file, s.sim.Snapshot())
				if err != nil {
					return err
				}
				fmt.Printf("Exported %q to %s (%d bytes)\n", s.slot, file, size)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Output file (default: <slot>.snap.zst)")

	return cmd
}

func newSnapshotImportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a compressed file into the current slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := persistence.ReadSnapshotFile(file)
			if err != nil {
				return err
			}

			s, err := openSession(ctx, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.sim.Restore(snap); err != nil {
				return fmt.Errorf("failed to restore %s: %w", file, err)
			}
			info, err := s.save(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %s into %q (%s)\n", file, info.Slot, info.Clock)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Snapshot file [required]")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newSnapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete a save slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted slot %q\n", args[0])
			return nil
		},
	}
}
