package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFoldersCommand creates the folder management command group.
func NewFoldersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage bookmark folders",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			color, _ := cmd.Flags().GetString("color")
			icon, _ := cmd.Flags().GetString("icon")
			folder := s.CreateFolder(args[0], color, icon)
			fmt.Printf("Created folder %q (%s)\n", folder.Name, folder.ID)
			return nil
		},
	}
	create.Flags().String("color", "", "folder color")
	create.Flags().String("icon", "", "folder icon")

	rename := &cobra.Command{
		Use:   "rename <folder-id> <name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			s.RenameFolder(args[0], args[1])
			fmt.Printf("Renamed folder %s to %q\n", args[0], args[1])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder and its bookmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			s.DeleteFolder(args[0])
			fmt.Printf("Deleted folder %s\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List folders and their bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			folders := s.Folders()
			if len(folders) == 0 {
				fmt.Println("No folders")
				return nil
			}
			for _, f := range folders {
				fmt.Printf("%s  %s (%d bookmarks)\n", f.ID, f.Name, len(f.Bookmarks))
				for _, b := range f.Bookmarks {
					if b.VerseKey != "" {
						fmt.Printf("    %s  %s\n", b.VerseID, b.VerseKey)
					} else {
						fmt.Printf("    %s\n", b.VerseID)
					}
				}
			}
			return nil
		},
	}

	cmd.AddCommand(create, rename, remove, list)
	return cmd
}
