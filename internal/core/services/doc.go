// Package services implements the driving port interfaces.
// Services contain the core business logic: the connector registry,
// the sync orchestrator and the frequency scheduler. They orchestrate
// calls to driven ports (adapters) and never touch infrastructure
// directly.
package services
