package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sentrypolicy/authzcore/internal/domain/evaluate"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
	"github.com/sentrypolicy/authzcore/internal/observability"
)

var evaluateFlags struct {
	policyFile    string
	matcherName   string
	subjectID     string
	subjectAttrs  []string
	resourceID    string
	resourceType  string
	resourceAttrs []string
	actionName    string
	trace         bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a single authorization decision against a policy file",
	RunE: func(cmd *cobra.Command, args []string) error {
		pol, err := loadPolicyFile(evaluateFlags.policyFile)
		if err != nil {
			return err
		}
		strategy, err := resolveMatcher(evaluateFlags.matcherName)
		if err != nil {
			return err
		}
		subjectAttrs, err := parseAttrs(evaluateFlags.subjectAttrs)
		if err != nil {
			return err
		}
		resourceAttrs, err := parseAttrs(evaluateFlags.resourceAttrs)
		if err != nil {
			return err
		}

		subject := policy.Subject{ID: evaluateFlags.subjectID, Attributes: subjectAttrs}
		resource := policy.Resource{ID: evaluateFlags.resourceID, Type: evaluateFlags.resourceType, Attributes: resourceAttrs}
		action := policy.Action{Name: evaluateFlags.actionName}

		evaluator := evaluate.New(strategy)
		if !evaluateFlags.trace {
			fmt.Println(evaluator.Evaluate(pol, subject, resource, action))
			return nil
		}

		providers, err := observability.NewStdoutProviders("authzctl")
		if err != nil {
			return err
		}
		defer providers.Shutdown(cmd.Context())

		traced, err := observability.Wrap(evaluator, providers.TracerProvider, providers.MeterProvider)
		if err != nil {
			return err
		}
		fmt.Println(traced.Evaluate(cmd.Context(), pol, subject, resource, action))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evaluateFlags.policyFile, "policy", "", "path to policy YAML file (required)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.matcherName, "matcher", "acl", "matcher strategy: acl, rbac, abac, restful")
	evaluateCmd.Flags().StringVar(&evaluateFlags.subjectID, "subject", "", "subject id (required)")
	evaluateCmd.Flags().StringArrayVar(&evaluateFlags.subjectAttrs, "subject-attr", nil, "subject attribute key=value (repeatable)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.resourceID, "resource", "", "resource id")
	evaluateCmd.Flags().StringVar(&evaluateFlags.resourceType, "resource-type", "", "resource type")
	evaluateCmd.Flags().StringArrayVar(&evaluateFlags.resourceAttrs, "resource-attr", nil, "resource attribute key=value (repeatable)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.actionName, "action", "", "action name (required)")
	evaluateCmd.Flags().BoolVar(&evaluateFlags.trace, "trace", false, "wrap the evaluation with OpenTelemetry tracing/metrics and print spans to stdout")
	_ = evaluateCmd.MarkFlagRequired("policy")
	_ = evaluateCmd.MarkFlagRequired("subject")
	_ = evaluateCmd.MarkFlagRequired("action")
}
