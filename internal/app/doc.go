// Package app wires the orchestrator together: it owns the logger, the
// site profile, and the ledger, and dispatches the parsed command to its
// typed handler. Components below this package never read global state;
// everything they need arrives as an explicit argument.
package app
