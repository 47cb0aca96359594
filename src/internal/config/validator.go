package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

// ValidateConfig validates the entire configuration and returns all validation errors.
//
// Chains referenced by zone rules are not checked here: a zone rule against a chain
// that cannot be dispatched is reported by the compiler as an invalid chain.
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.General != nil {
		if err := validate.Struct(c.General); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
		}
	}

	if c.Global != nil {
		validationErrors = append(validationErrors, c.validateGlobal()...)
	}

	validationErrors = append(validationErrors, c.validateZones()...)
	validationErrors = append(validationErrors, c.validateSets()...)

	for name := range c.Variables {
		if name == "" {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: "variables",
				Message:   "variable name cannot be empty",
			})
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateGlobal() ValidationErrors {
	var validationErrors ValidationErrors

	seenPolicies := make(map[string]bool)
	for i, p := range c.Global.Policy {
		fieldPrefix := fmt.Sprintf("global.policy.%d", i)
		if err := validate.Struct(p); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fieldPrefix, "")...)
			continue
		}
		if !netfilter.IsDefaultChain(p.Table, p.Chain) {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fieldPrefix + ".chain",
				Message:   fmt.Sprintf("%s is not a built-in chain of table %s", p.Chain, p.Table),
			})
		}
		key := p.Table + "/" + p.Chain
		if seenPolicies[key] {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fieldPrefix,
				Message:   fmt.Sprintf("duplicate policy for %s", key),
			})
		}
		seenPolicies[key] = true
	}

	seenHelpers := make(map[string]bool)
	for i, h := range c.Global.HelperChains {
		fieldPrefix := fmt.Sprintf("global.helper_chain.%d", i)
		if err := validate.Struct(h); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fieldPrefix, h.Chain)...)
			continue
		}
		if netfilter.IsDefaultChain(h.Table, h.Chain) {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  h.Chain,
				FieldPath: fieldPrefix + ".chain",
				Message:   "helper chain cannot shadow a built-in chain",
			})
		}
		key := h.Table + "/" + h.Chain
		if seenHelpers[key] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  h.Chain,
				FieldPath: fieldPrefix,
				Message:   fmt.Sprintf("duplicate helper chain %s", key),
			})
		}
		seenHelpers[key] = true
	}

	for _, stage := range c.Global.Stages() {
		for i, cr := range stage.Rules {
			fieldPrefix := fmt.Sprintf("global.rules.%s.%d", stage.Name, i)
			if err := validate.Struct(cr); err != nil {
				validationErrors = append(validationErrors, convertValidatorErrors(err, fieldPrefix, "")...)
				continue
			}
			if !c.isKnownChain(cr.Table, cr.Chain, seenHelpers) {
				validationErrors = append(validationErrors, ValidationError{
					FieldPath: fieldPrefix + ".chain",
					Message:   fmt.Sprintf("chain %s is not declared in table %s", cr.Chain, cr.Table),
				})
			}
		}
	}

	return validationErrors
}

// isKnownChain reports whether a hooked rule can target table/chain. Hooked rules are
// emitted before zone dispatch chains are declared, so only built-in and helper chains qualify.
func (c *Config) isKnownChain(table, chain string, helpers map[string]bool) bool {
	return netfilter.IsDefaultChain(table, chain) || helpers[table+"/"+chain]
}

func (c *Config) validateZones() ValidationErrors {
	var validationErrors ValidationErrors

	helpers := make(map[string]bool)
	if c.Global != nil {
		for _, h := range c.Global.HelperChains {
			helpers[h.Table+"/"+h.Chain] = true
		}
	}

	seenNames := make(map[string]bool)
	for i, zone := range c.Zones {
		itemName := zone.Name
		if itemName == "" {
			itemName = fmt.Sprintf("zone[%d]", i)
		}

		if err := validate.Struct(zone); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("zone.%d", i), itemName)...)
		}

		if seenNames[zone.Name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate zone name: %s", zone.Name),
			})
		}
		seenNames[zone.Name] = true

		seenIfaces := make(map[string]bool)
		for _, iface := range zone.Interfaces {
			if iface == "" {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: "interfaces",
					Message:   "interface name cannot be empty",
				})
			}
			if seenIfaces[iface] {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: "interfaces",
					Message:   fmt.Sprintf("duplicate interface: %s", iface),
				})
			}
			seenIfaces[iface] = true
		}

		seenChains := make(map[string]bool)
		for j, cr := range zone.Rules {
			key := cr.Table + "/" + cr.Chain
			if seenChains[key] {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: fmt.Sprintf("rules.%d", j),
					Message:   fmt.Sprintf("duplicate rules section for %s", key),
				})
			}
			seenChains[key] = true

			dispatch := zone.Name + "_" + cr.Chain
			if len(dispatch) > maxChainNameLen {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: fmt.Sprintf("rules.%d.chain", j),
					Message:   fmt.Sprintf("dispatch chain name %s exceeds %d characters", dispatch, maxChainNameLen),
				})
			}
			if helpers[cr.Table+"/"+dispatch] {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: fmt.Sprintf("rules.%d.chain", j),
					Message:   fmt.Sprintf("dispatch chain %s/%s collides with a helper chain", cr.Table, dispatch),
				})
			}
		}
	}

	return validationErrors
}

func (c *Config) validateSets() ValidationErrors {
	var validationErrors ValidationErrors

	seenNames := make(map[string]bool)
	for i, set := range c.Sets {
		itemName := set.Name
		if itemName == "" {
			itemName = fmt.Sprintf("set[%d]", i)
		}

		if err := validate.Struct(set); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("set.%d", i), itemName)...)
		}

		if seenNames[set.Name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate set name: %s", set.Name),
			})
		}
		seenNames[set.Name] = true
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because we registered TagNameFunc
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
