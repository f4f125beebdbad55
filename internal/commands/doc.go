// Package commands holds the application's CLI commands.
//
// Built-in commands (run, shell, routes) exist on every application.
// Top-level commands (bundles, db) are the project's own and are
// registered ahead of bundle command groups, so a bundle cannot take
// their names.
package commands
