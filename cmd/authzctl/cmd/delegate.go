package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentrypolicy/authzcore/internal/adapter/outbound/sqlite"
	"github.com/sentrypolicy/authzcore/internal/domain/delegation"
	"github.com/sentrypolicy/authzcore/internal/domain/evaluate"
	"github.com/sentrypolicy/authzcore/internal/domain/expr"
	"github.com/sentrypolicy/authzcore/internal/domain/matcher"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

var delegateCmd = &cobra.Command{
	Use:   "delegate",
	Short: "Create, revoke, and list delegations",
}

var delegateDB string

func init() {
	rootCmd.AddCommand(delegateCmd)
	delegateCmd.PersistentFlags().StringVar(&delegateDB, "db", "authzcore.db", "path to the SQLite delegation/policy store")
	delegateCmd.AddCommand(delegateCreateCmd, delegateRevokeCmd, delegateListCmd)
}

// openManager wires a delegation.Manager over the SQLite stores at
// delegateDB, using the policy-backed ACL matcher for the validator's
// containment check — the same matcher an embedding application would
// configure as its default.
func openManager() (delegation.Manager, func() error, error) {
	db, err := sqlite.Open(delegateDB)
	if err != nil {
		return delegation.Manager{}, nil, fmt.Errorf("opening store %s: %w", delegateDB, err)
	}
	policyStore, err := sqlite.NewPolicyStore(db)
	if err != nil {
		return delegation.Manager{}, nil, err
	}
	delegationStore, err := sqlite.NewDelegationStore(db)
	if err != nil {
		return delegation.Manager{}, nil, err
	}

	evaluator := evaluate.New(matcher.New(matcher.StrategyACL, expr.Evaluator{}, nil))
	validator := delegation.Validator{Loader: policyStore, Evaluator: evaluator, Store: delegationStore}
	manager := delegation.Manager{Store: delegationStore, Validator: validator}
	return manager, db.Close, nil
}

var delegateCreateFlags struct {
	delegator    string
	delegate     string
	resources    []string
	actions      []string
	domain       string
	expiresInStr string
	transitive   bool
}

var delegateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new delegation",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeDB, err := openManager()
		if err != nil {
			return err
		}
		defer closeDB()

		var expiresAt *time.Time
		if delegateCreateFlags.expiresInStr != "" {
			d, err := time.ParseDuration(delegateCreateFlags.expiresInStr)
			if err != nil {
				return fmt.Errorf("parsing --expires-in: %w", err)
			}
			t := time.Now().Add(d)
			expiresAt = &t
		}

		scope := delegation.Scope{
			Resources: delegateCreateFlags.resources,
			Actions:   delegateCreateFlags.actions,
			Domain:    delegateCreateFlags.domain,
		}
		d, err := manager.Delegate(cmd.Context(),
			policy.Subject{ID: delegateCreateFlags.delegator},
			policy.Subject{ID: delegateCreateFlags.delegate},
			scope, expiresAt, delegateCreateFlags.transitive, nil,
		)
		if err != nil {
			return err
		}
		fmt.Printf("created delegation %s: %s -> %s\n", d.ID, d.DelegatorID, d.DelegateID)
		return nil
	},
}

var delegateRevokeCmd = &cobra.Command{
	Use:   "revoke <id>",
	Short: "Revoke a delegation by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeDB, err := openManager()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := manager.Revoke(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("revoked delegation %s\n", args[0])
		return nil
	},
}

var delegateListDelegateID string

var delegateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active delegations for a delegate",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, closeDB, err := openManager()
		if err != nil {
			return err
		}
		defer closeDB()

		active, err := manager.FindActiveDelegations(cmd.Context(), delegateListDelegateID)
		if err != nil {
			return err
		}
		for _, d := range active {
			fmt.Printf("%s: %s -> %s resources=%v actions=%v transitive=%v\n",
				d.ID, d.DelegatorID, d.DelegateID, d.Scope.Resources, d.Scope.Actions, d.IsTransitive)
		}
		return nil
	},
}

func init() {
	delegateCreateCmd.Flags().StringVar(&delegateCreateFlags.delegator, "delegator", "", "delegator subject id (required)")
	delegateCreateCmd.Flags().StringVar(&delegateCreateFlags.delegate, "delegate", "", "delegate subject id (required)")
	delegateCreateCmd.Flags().StringArrayVar(&delegateCreateFlags.resources, "resource", nil, "resource glob pattern (repeatable, required)")
	delegateCreateCmd.Flags().StringArrayVar(&delegateCreateFlags.actions, "action", nil, "action glob pattern (repeatable, required)")
	delegateCreateCmd.Flags().StringVar(&delegateCreateFlags.domain, "domain", "", "restrict the delegation to a domain")
	delegateCreateCmd.Flags().StringVar(&delegateCreateFlags.expiresInStr, "expires-in", "", "expiry as a duration (e.g. 720h); omit for no expiry")
	delegateCreateCmd.Flags().BoolVar(&delegateCreateFlags.transitive, "transitive", false, "allow the delegate to chain this delegation onward")
	_ = delegateCreateCmd.MarkFlagRequired("delegator")
	_ = delegateCreateCmd.MarkFlagRequired("delegate")
	_ = delegateCreateCmd.MarkFlagRequired("resource")
	_ = delegateCreateCmd.MarkFlagRequired("action")

	delegateListCmd.Flags().StringVar(&delegateListDelegateID, "delegate", "", "delegate subject id (required)")
	_ = delegateListCmd.MarkFlagRequired("delegate")
}
