// Package driving provides interfaces for primary/inbound ports.
// These are the operations the CLI (or any host application) invokes
// on the core services.
package driving
