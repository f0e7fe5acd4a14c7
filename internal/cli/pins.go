package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPinCommand creates the pin toggle command.
func NewPinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <verse-id>",
		Short: "Toggle a verse on the quick-access pinned list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			if s.TogglePinned(args[0]) {
				fmt.Printf("Pinned %s\n", args[0])
			} else {
				fmt.Printf("Unpinned %s\n", args[0])
			}
			return nil
		},
	}
}

// NewPinsCommand creates the pinned list command.
func NewPinsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pins",
		Short: "List pinned verses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			pinned := s.PinnedVerses()
			if len(pinned) == 0 {
				fmt.Println("No pinned verses")
				return nil
			}
			for _, p := range pinned {
				if p.SurahName != "" {
					fmt.Printf("%s  %s (%s)\n", p.VerseID, p.VerseKey, p.SurahName)
				} else {
					fmt.Println(p.VerseID)
				}
			}
			return nil
		},
	}
}
