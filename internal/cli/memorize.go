package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

// NewMemorizeCommand creates the memorization plan command group.
func NewMemorizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memorize",
		Short: "Manage memorization plans",
	}

	create := &cobra.Command{
		Use:   "create <surah> <target-verses>",
		Short: "Create a memorization plan for a surah",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("target must be a number: %w", err)
			}

			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			name, _ := cmd.Flags().GetString("name")
			plan, err := s.CreateMemorizationPlan(args[0], target, name)
			if err != nil {
				return err
			}
			fmt.Printf("Created plan for surah %s: %d verses\n", plan.SurahID, plan.TargetVerses)
			return nil
		},
	}
	create.Flags().String("name", "", "plan name")

	progress := &cobra.Command{
		Use:   "progress <surah> <completed>",
		Short: "Update memorization progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("completed must be a number: %w", err)
			}

			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			s.UpdateMemorizationProgress(args[0], completed)
			fmt.Printf("Surah %s progress: %d verses\n", args[0], completed)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <surah>",
		Short: "Remove a memorization plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			s.DeleteMemorizationPlan(args[0])
			fmt.Printf("Removed plan for surah %s\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List memorization plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closer()

			plans := s.MemorizationPlans()
			if len(plans) == 0 {
				fmt.Println("No memorization plans")
				return nil
			}
			surahs := make([]string, 0, len(plans))
			for surah := range plans {
				surahs = append(surahs, surah)
			}
			sort.Strings(surahs)
			for _, surah := range surahs {
				p := plans[surah]
				fmt.Printf("Surah %s: %d/%d verses\n", surah, p.CompletedVerses, p.TargetVerses)
			}
			return nil
		},
	}

	cmd.AddCommand(create, progress, remove, list)
	return cmd
}
