package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

var (
	objectNameRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	chainNameRegexp  = regexp.MustCompile(`^[^\s!-][^\s]*$`)
)

// maxChainNameLen is the longest chain name the packet-filter engine accepts.
const maxChainNameLen = 28

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "table":
		return fmt.Sprintf("must be one of: %s", strings.Join(netfilter.Tables(), " "))
	case "policy":
		return "must be one of: ACCEPT DROP"
	case "chain_name":
		return fmt.Sprintf("must be a chain name of at most %d characters without whitespace", maxChainNameLen)
	case "object_name":
		return "must consist only of letters, numbers, '-' and '_' [A-Za-z0-9_-]"
	case "family":
		return "must be one of: ipv4 ipv6"
	case "hostname_port":
		return "must be in format 'host:port'"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // For zones/sets: the name of the item (e.g., "lan", "blocked")
	FieldPath string // Dot-notation field path (e.g., "zone.0.rules.1.table")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("table", validateTable); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("policy", validatePolicy); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("chain_name", validateChainName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("object_name", validateObjectName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("family", validateFamily); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateTable(fl validator.FieldLevel) bool {
	return netfilter.IsTable(fl.Field().String())
}

func validatePolicy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case netfilter.PolicyAccept, netfilter.PolicyDrop:
		return true
	}
	return false
}

func validateChainName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return len(name) <= maxChainNameLen && chainNameRegexp.MatchString(name)
}

func validateObjectName(fl validator.FieldLevel) bool {
	return objectNameRegexp.MatchString(fl.Field().String())
}

func validateFamily(fl validator.FieldLevel) bool {
	_, err := netfilter.ParseFamily(fl.Field().String())
	return err == nil
}
