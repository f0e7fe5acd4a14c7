package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewSnapshotCommand creates the export/import/reset command group.
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export, import or reset the store",
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Export all collections to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			data, err := s.Export()
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("failed to write export file: %w", err)
			}
			fmt.Printf("Exported to %s\n", args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import collections from an exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			if err := s.Import(data); err != nil {
				return err
			}
			fmt.Printf("Imported %s\n", args[0])
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Clear all persisted collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				return fmt.Errorf("refusing to reset without --yes")
			}

			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			s.Reset()
			fmt.Println("Store reset")
			return nil
		},
	}
	reset.Flags().Bool("yes", false, "confirm the reset")

	cmd.AddCommand(export, importCmd, reset)
	return cmd
}
