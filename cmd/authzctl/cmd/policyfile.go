// Package cmd provides the authzctl CLI: evaluate/simulate/compare/delegate
// subcommands that operate on a YAML policy file, mirroring sentinel-gate's
// Cobra + Viper command structure.
package cmd

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// ruleDTO is the on-disk shape of a policy rule: a flat YAML document, no
// nested matcher-specific sub-schemas, since interpretation of Subject/
// Resource/Action patterns is the selected matcher's job, not the file
// format's.
type ruleDTO struct {
	Subject   string `yaml:"subject" validate:"required"`
	Resource  string `yaml:"resource"`
	Action    string `yaml:"action" validate:"required"`
	Effect    string `yaml:"effect" validate:"required,oneof=allow deny"`
	Priority  int    `yaml:"priority"`
	DomainID  string `yaml:"domain"`
	Condition string `yaml:"condition"`
}

// policyFileDTO is the on-disk shape of a policy file.
type policyFileDTO struct {
	Name    string    `yaml:"name" validate:"required"`
	Extends string    `yaml:"extends"`
	Rules   []ruleDTO `yaml:"rules" validate:"dive"`
}

// loadPolicyFile reads, validates, and converts a YAML policy file into a
// policy.Policy.
func loadPolicyFile(path string) (policy.Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("reading policy file %s: %w", path, err)
	}

	var dto policyFileDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return policy.Policy{}, fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(dto); err != nil {
		return policy.Policy{}, fmt.Errorf("validating policy file %s: %w", path, err)
	}

	return dto.toPolicy(), nil
}

func (dto policyFileDTO) toPolicy() policy.Policy {
	pol := policy.Policy{Name: dto.Name, Extends: dto.Extends}
	for _, r := range dto.Rules {
		priority := policy.Priority(r.Priority)
		if priority == 0 {
			priority = policy.DefaultPriority
		}
		var domain *policy.Domain
		if r.DomainID != "" {
			domain = &policy.Domain{ID: r.DomainID}
		}
		pol.Rules = append(pol.Rules, policy.ConditionalPolicyRule{
			PolicyRule: policy.PolicyRule{
				Subject: r.Subject, Resource: r.Resource, Action: r.Action,
				Effect: policy.Effect(r.Effect), Priority: priority, Domain: domain,
			},
			Condition: r.Condition,
		})
	}
	return pol
}
