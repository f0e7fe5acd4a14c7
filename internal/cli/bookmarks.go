package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewBookmarkCommand creates the bookmark command group.
func NewBookmarkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage saved verses",
	}

	add := &cobra.Command{
		Use:   "add <verse-id>",
		Short: "Bookmark a verse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			folderID, _ := cmd.Flags().GetString("folder")
			if s.AddBookmark(args[0], folderID) {
				fmt.Printf("Bookmarked %s\n", args[0])
			} else {
				fmt.Printf("%s is already bookmarked\n", args[0])
			}
			return nil
		},
	}
	add.Flags().String("folder", "", "target folder id (defaults to Uncategorized)")

	remove := &cobra.Command{
		Use:   "remove <verse-id> <folder-id>",
		Short: "Remove a bookmark from a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			s.RemoveBookmark(args[0], args[1])
			fmt.Printf("Removed %s\n", args[0])
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <verse-id>",
		Short: "Toggle a verse bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			folderID, _ := cmd.Flags().GetString("folder")
			if s.ToggleBookmark(args[0], folderID) {
				fmt.Printf("Bookmarked %s\n", args[0])
			} else {
				fmt.Printf("Unbookmarked %s\n", args[0])
			}
			return nil
		},
	}
	toggle.Flags().String("folder", "", "target folder id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all bookmarked verse ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			verses := s.BookmarkedVerses()
			if len(verses) == 0 {
				fmt.Println("No bookmarks")
				return nil
			}
			fmt.Println(strings.Join(verses, "\n"))
			return nil
		},
	}

	cmd.AddCommand(add, remove, toggle, list)
	return cmd
}
