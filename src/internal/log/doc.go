// Package log provides simple leveled logging for fwgen.
//
// Messages are printed with a coloured level prefix. Errors go to stderr, everything
// else to stdout, unless SetOutput redirects both streams to a single writer.
//
//	log.Infof("Applying %d rules for %s", n, family)
//	log.SetVerbose(true)
//	log.Debugf("Compiled document:\n%s", doc)
//
// Fatalf logs and exits the process with status 1.
package log
