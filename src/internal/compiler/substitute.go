package compiler

import (
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/errors"
)

const (
	variableStartTag = "${"
	zoneStartTag     = "%{"
	endTag           = "}"
)

// Substituter resolves ${variable} and %{zone} placeholders against a configuration.
// It only reads the maps it was built with.
type Substituter struct {
	variables map[string]string
	zones     map[string][]string
}

// NewSubstituter snapshots variables and zone interfaces from cfg.
func NewSubstituter(cfg *config.Config) *Substituter {
	s := &Substituter{
		variables: make(map[string]string, len(cfg.Variables)),
		zones:     make(map[string][]string, len(cfg.Zones)),
	}
	for name, value := range cfg.Variables {
		s.variables[name] = value
	}
	for _, zone := range cfg.Zones {
		s.zones[zone.Name] = append([]string(nil), zone.Interfaces...)
	}
	return s
}

// ResolveVariables replaces every ${name} in text until none remain.
// A value may itself contain placeholders; each pass rewrites all of them, and more
// passes than there are variables means a variable refers back to itself.
func (s *Substituter) ResolveVariables(text string) (string, error) {
	maxPasses := len(s.variables) + 1
	for pass := 0; strings.Contains(text, variableStartTag); pass++ {
		if pass >= maxPasses {
			return "", errors.NewSubstitutionCycleError(text, pass)
		}

		t, err := fasttemplate.NewTemplate(text, variableStartTag, endTag)
		if err != nil {
			return "", errors.NewMalformedPlaceholderError(text, err)
		}
		text, err = t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
			value, ok := s.variables[tag]
			if !ok {
				return 0, errors.NewUndefinedVariableError(tag)
			}
			return w.Write([]byte(value))
		})
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

// ExpandZones yields one string per combination of interfaces of the zones referenced
// in text. The leftmost placeholder is replaced first and its result is expanded fully
// before the next interface is tried, so the leftmost placeholder varies slowest. An
// interface name may itself reference a zone; a zone reached again through its own
// interfaces is a cycle.
//
// The sequence stops after the first error.
func (s *Substituter) ExpandZones(text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		s.expandZones(text, nil, stopOnError(yield))
	}
}

// Expand resolves variables and then expands zones.
func (s *Substituter) Expand(text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resolved, err := s.ResolveVariables(text)
		if err != nil {
			yield("", err)
			return
		}
		s.expandZones(resolved, nil, stopOnError(yield))
	}
}

func stopOnError(yield func(string, error) bool) func(string, error) bool {
	return func(line string, err error) bool {
		return yield(line, err) && err == nil
	}
}

// checkZones rejects malformed, unknown and cyclic zone placeholders in text before
// any of it is expanded, so an error is reported even when an earlier zone is empty.
func (s *Substituter) checkZones(text string, path []string) error {
	t, err := fasttemplate.NewTemplate(text, zoneStartTag, endTag)
	if err != nil {
		return errors.NewMalformedPlaceholderError(text, err)
	}
	_, err = t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		if _, ok := s.zones[tag]; !ok {
			return 0, errors.NewUndefinedZoneError(tag)
		}
		if slices.Contains(path, tag) {
			return 0, errors.NewSubstitutionCycleError(text, len(path))
		}
		return 0, nil
	})
	return err
}

// expandZones emits every expansion of text. path holds the zones whose interfaces
// text came from. It returns false once emit does.
func (s *Substituter) expandZones(text string, path []string, emit func(string, error) bool) bool {
	if !strings.Contains(text, zoneStartTag) {
		return emit(text, nil)
	}
	if err := s.checkZones(text, path); err != nil {
		return emit("", err)
	}

	prefix, rest, _ := strings.Cut(text, zoneStartTag)
	name, suffix, _ := strings.Cut(rest, endTag)
	inner := append(slices.Clip(path), name)

	for _, iface := range s.zones[name] {
		ok := s.expandZones(iface, inner, func(expanded string, err error) bool {
			if err != nil {
				return emit("", err)
			}
			return s.expandZones(suffix, path, func(tail string, err error) bool {
				if err != nil {
					return emit("", err)
				}
				return emit(prefix+expanded+tail, nil)
			})
		})
		if !ok {
			return false
		}
	}
	// A zone without interfaces matches nothing.
	return true
}
