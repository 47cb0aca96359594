// Package utils provides small file and path helpers shared across fwgen.
package utils
