package service

import (
	"github.com/maksimkurb/fwgen/src/internal/compiler"
	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/domain"
	"github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/networking"
)

// ValidationService checks a configuration without touching any engine.
//
// It validates:
//   - Configuration shape (tables, policies, names, duplicates)
//   - Compilation (undefined variables and zones, invalid zone chains, cycles)
//   - Network interfaces existence (warnings only)
type ValidationService struct {
	interfaces domain.InterfaceLister
}

// NewValidationService creates a new validation service.
// A nil lister skips the interface check.
func NewValidationService(interfaces domain.InterfaceLister) *ValidationService {
	return &ValidationService{interfaces: interfaces}
}

// CheckReport is the outcome of CheckConfig.
type CheckReport struct {
	// MissingInterfaces are zone interfaces absent on the host. They do not fail the check.
	MissingInterfaces []networking.MissingInterface `json:"missing_interfaces,omitempty"`
}

// ValidateConfig validates the configuration and compiles every document once.
//
// This returns the first error encountered.
func (v *ValidationService) ValidateConfig(cfg *config.Config) error {
	if err := cfg.ValidateConfig(); err != nil {
		return errors.NewValidationError("configuration is invalid", err)
	}

	c := compiler.New(cfg)
	validators := []func() error{
		func() error { _, err := c.SetDocument(false); return err },
		func() error { _, err := c.RuleDocument(); return err },
		func() error { _, err := c.ResetDocument(); return err },
	}
	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// CheckConfig validates the configuration and then looks for zone interfaces that
// do not exist on the host.
//
// This performs a best-effort interface check: an interface that doesn't exist now
// might exist later (e.g. VPN interfaces that come and go).
func (v *ValidationService) CheckConfig(cfg *config.Config) (*CheckReport, error) {
	if err := v.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	report := &CheckReport{}
	if v.interfaces == nil {
		return report, nil
	}

	names, err := v.interfaces.InterfaceNames()
	if err != nil {
		return nil, errors.NewInternalError("failed to list interfaces", err)
	}
	report.MissingInterfaces = networking.FindMissingInterfaces(cfg, names)
	return report, nil
}
