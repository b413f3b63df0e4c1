package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sentrypolicy/authzcore/internal/domain/compare"
)

var compareFlags struct {
	oldPolicyFile string
	newPolicyFile string
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Diff two policy files by rule signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		oldPolicy, err := loadPolicyFile(compareFlags.oldPolicyFile)
		if err != nil {
			return err
		}
		newPolicy, err := loadPolicyFile(compareFlags.newPolicyFile)
		if err != nil {
			return err
		}

		diff := compare.Diff(oldPolicy, newPolicy)
		fmt.Printf("added:     %d\n", len(diff.Added))
		for _, r := range diff.Added {
			fmt.Printf("  + %s %s %s -> %s\n", r.Subject, r.Resource, r.Action, r.Effect)
		}
		fmt.Printf("removed:   %d\n", len(diff.Removed))
		for _, r := range diff.Removed {
			fmt.Printf("  - %s %s %s -> %s\n", r.Subject, r.Resource, r.Action, r.Effect)
		}
		fmt.Printf("unchanged: %d\n", len(diff.Unchanged))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareFlags.oldPolicyFile, "old", "", "path to the old policy YAML file (required)")
	compareCmd.Flags().StringVar(&compareFlags.newPolicyFile, "new", "", "path to the new policy YAML file (required)")
	_ = compareCmd.MarkFlagRequired("old")
	_ = compareCmd.MarkFlagRequired("new")
}
