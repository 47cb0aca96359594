package networking

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/log"
)

const ipsetCommand = "ipset"

// setEngineRef names the set engine in submission errors.
const setEngineRef = "ipset"

// IPSetEngine drives the ipset binary.
type IPSetEngine struct {
	run commandRunner
}

// NewIPSetEngine creates a set engine that runs the host ipset binary.
func NewIPSetEngine() *IPSetEngine {
	return &IPSetEngine{run: execCommand}
}

// Restore feeds document to `ipset restore`. Commands are applied in order and the
// first failing one aborts the rest.
func (e *IPSetEngine) Restore(ctx context.Context, document []byte) error {
	log.Debugf("Submitting %d lines to ipset restore", bytes.Count(document, []byte("\n")))

	if _, err := e.run(ctx, document, ipsetCommand, "restore", "-exist"); err != nil {
		return fwerrors.NewEngineSubmissionError(setEngineRef, err)
	}
	return nil
}

// ListNames returns the names of all sets on the host.
func (e *IPSetEngine) ListNames(ctx context.Context) ([]string, error) {
	out, err := e.run(ctx, nil, ipsetCommand, "list", "-n")
	if err != nil {
		return nil, fwerrors.NewEngineSubmissionError(setEngineRef, err)
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	return names, scanner.Err()
}
