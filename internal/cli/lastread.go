package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/YasinHossain/quran-app-sub003/internal/collection"
	"github.com/spf13/cobra"
)

// NewLastReadCommand creates the last-read tracking command group.
func NewLastReadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lastread",
		Short: "Track the last-read position per chapter",
	}

	set := &cobra.Command{
		Use:   "set <chapter> <verse>",
		Short: "Record the last-read verse for a chapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			verse, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("verse must be a number: %w", err)
			}

			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			s.SetLastRead(args[0], collection.LastReadEntry{
				Verse:    verse,
				VerseKey: args[0] + ":" + args[1],
			})
			fmt.Printf("Chapter %s last read at verse %d\n", args[0], verse)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get [chapter]",
		Short: "Show last-read positions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			lastRead := s.LastRead()
			if len(args) == 1 {
				entry, ok := lastRead[args[0]]
				if !ok {
					fmt.Printf("No position recorded for chapter %s\n", args[0])
					return nil
				}
				fmt.Printf("Chapter %s: verse %d\n", args[0], entry.Verse)
				return nil
			}

			if len(lastRead) == 0 {
				fmt.Println("No positions recorded")
				return nil
			}
			chapters := make([]string, 0, len(lastRead))
			for chapter := range lastRead {
				chapters = append(chapters, chapter)
			}
			sort.Strings(chapters)
			for _, chapter := range chapters {
				fmt.Printf("Chapter %s: verse %d\n", chapter, lastRead[chapter].Verse)
			}
			return nil
		},
	}

	cmd.AddCommand(set, get)
	return cmd
}
