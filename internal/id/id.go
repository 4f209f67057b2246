// Package id generates prefixed, URL-safe record identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for GameSync records. A prefix makes an ID self-describing in logs
// and URLs ("game-V1StGXR8_Z5jdHi6B-myT").
const (
	PrefixGame       = "game"
	PrefixTag        = "tag"
	PrefixSession    = "sess"
	PrefixCollection = "coll"
	PrefixUser       = "user"
	PrefixToken      = "token"
)

// Generate creates a prefixed unique ID using NanoID (21 characters, URL-safe alphabet).
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use it only during initialization, where failure should crash the program.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
