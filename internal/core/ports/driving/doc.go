// Package driving defines the interfaces through which the outside
// world drives the core: the sync orchestrator and the scheduler.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// CLI and other management surfaces depend on these interfaces; core
// services implement them.
package driving
