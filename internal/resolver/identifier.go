// Package resolver turns user input (a full or abbreviated identifier) into a
// full identifier that exists in the registry.
package resolver

import (
	"context"
	"fmt"

	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/dyluth/fleetid/pkg/registry"
)

// maxListedMatches caps how many candidates FormatAmbiguousError prints.
const maxListedMatches = 10

// Store is the subset of registry.Client the resolver reads from.
type Store interface {
	GetRecord(ctx context.Context, identifier string) (*registry.SpawnRecord, error)
	Identifiers(ctx context.Context) ([]string, error)
}

// Resolve returns the full identifier the input refers to.
//
// A full identifier is returned as-is once the registry confirms it exists.
// Anything else is compared against the abbreviated form ("F.CB-01") of every
// issued identifier; exactly one match is required. Abbreviations can collide
// when two parents share an initial, which surfaces as an AmbiguousError.
func Resolve(ctx context.Context, store Store, schema *naming.Schema, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("identifier cannot be empty")
	}

	if schema.IsValid(input) {
		_, err := store.GetRecord(ctx, input)
		if err != nil {
			if registry.IsNotFound(err) {
				return "", &NotFoundError{Input: input}
			}
			return "", fmt.Errorf("failed to verify identifier: %w", err)
		}
		return input, nil
	}

	ids, err := store.Identifiers(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to search for identifier: %w", err)
	}

	var matches []string
	for _, id := range ids {
		if id == input || schema.DisplayName(id, naming.FormatAbbreviated) == input {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Input: input}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Input: input, Matches: matches}
	}
}

// NotFoundError indicates nothing in the registry matched the input.
type NotFoundError struct {
	Input string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no identifier found matching '%s'", e.Input)
}

// AmbiguousError indicates an abbreviation matched several identifiers.
type AmbiguousError struct {
	Input   string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous identifier '%s' matches %d identifiers", e.Input, len(e.Matches))
}

// FormatAmbiguousError lists the candidates (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	msg := fmt.Sprintf("'%s' matches %d identifiers:\n", err.Input, len(err.Matches))

	displayCount := len(err.Matches)
	if displayCount > maxListedMatches {
		displayCount = maxListedMatches
	}

	for i := 0; i < displayCount; i++ {
		msg += fmt.Sprintf("  %s\n", err.Matches[i])
	}

	if len(err.Matches) > maxListedMatches {
		msg += fmt.Sprintf("  ...and %d more\n", len(err.Matches)-maxListedMatches)
	}

	return msg
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
