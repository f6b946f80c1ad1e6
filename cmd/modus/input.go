package main

import (
	"encoding/json"
	"fmt"
	"os"

	"modus/internal/surface"
)

// inputFile is the on-disk shape every subcommand reads: a lowered-ready
// surface program plus the query expression to plan/prove/check against.
// Surface-language text parsing is an out-of-scope external collaborator
// (spec §1); this JSON document is the concrete stand-in a caller without
// access to that parser can hand-author or generate.
type inputFile struct {
	Modusfile surface.Modusfile `json:"modusfile"`
	Query     json.RawMessage   `json:"query"`
}

func loadInput(path string) (surface.Modusfile, surface.Expression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return surface.Modusfile{}, nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	var in inputFile
	if err := json.Unmarshal(data, &in); err != nil {
		return surface.Modusfile{}, nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}
	query, err := surface.UnmarshalExpression(in.Query)
	if err != nil {
		return surface.Modusfile{}, nil, fmt.Errorf("failed to parse query in %s: %w", path, err)
	}
	return in.Modusfile, query, nil
}

// loadModusfile reads just the "modusfile" field, for subcommands (like
// mangle-export) that operate on the clause database without a query.
func loadModusfile(path string) (surface.Modusfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return surface.Modusfile{}, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	var in struct {
		Modusfile surface.Modusfile `json:"modusfile"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return surface.Modusfile{}, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}
	return in.Modusfile, nil
}
