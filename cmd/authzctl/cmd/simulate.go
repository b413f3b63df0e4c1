package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sentrypolicy/authzcore/internal/domain/evaluate"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
	"github.com/sentrypolicy/authzcore/internal/domain/simulate"
)

var simulateFlags struct {
	policyFile    string
	matcherName   string
	subjectID     string
	subjectAttrs  []string
	resourceID    string
	resourceType  string
	resourceAttrs []string
	actionName    string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a side-effect-free, timed evaluation against a policy file",
	RunE: func(cmd *cobra.Command, args []string) error {
		pol, err := loadPolicyFile(simulateFlags.policyFile)
		if err != nil {
			return err
		}
		strategy, err := resolveMatcher(simulateFlags.matcherName)
		if err != nil {
			return err
		}
		subjectAttrs, err := parseAttrs(simulateFlags.subjectAttrs)
		if err != nil {
			return err
		}
		resourceAttrs, err := parseAttrs(simulateFlags.resourceAttrs)
		if err != nil {
			return err
		}

		subject := policy.Subject{ID: simulateFlags.subjectID, Attributes: subjectAttrs}
		resource := policy.Resource{ID: simulateFlags.resourceID, Type: simulateFlags.resourceType, Attributes: resourceAttrs}
		action := policy.Action{Name: simulateFlags.actionName}

		result := simulate.New(evaluate.New(strategy)).Run(pol, subject, resource, action)
		fmt.Printf("effect: %s\n", result.Effect)
		fmt.Printf("matched rules: %d\n", len(result.MatchedRules))
		fmt.Printf("execution time: %.4fms\n", result.ExecutionTimeMs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simulateFlags.policyFile, "policy", "", "path to policy YAML file (required)")
	simulateCmd.Flags().StringVar(&simulateFlags.matcherName, "matcher", "acl", "matcher strategy: acl, rbac, abac, restful")
	simulateCmd.Flags().StringVar(&simulateFlags.subjectID, "subject", "", "subject id (required)")
	simulateCmd.Flags().StringArrayVar(&simulateFlags.subjectAttrs, "subject-attr", nil, "subject attribute key=value (repeatable)")
	simulateCmd.Flags().StringVar(&simulateFlags.resourceID, "resource", "", "resource id")
	simulateCmd.Flags().StringVar(&simulateFlags.resourceType, "resource-type", "", "resource type")
	simulateCmd.Flags().StringArrayVar(&simulateFlags.resourceAttrs, "resource-attr", nil, "resource attribute key=value (repeatable)")
	simulateCmd.Flags().StringVar(&simulateFlags.actionName, "action", "", "action name (required)")
	_ = simulateCmd.MarkFlagRequired("policy")
	_ = simulateCmd.MarkFlagRequired("subject")
	_ = simulateCmd.MarkFlagRequired("action")
}
