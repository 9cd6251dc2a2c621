// Package cli defines the vicidial-admin command tree, loads configuration
// for each invocation and translates workflow failures into exit codes.
package cli
