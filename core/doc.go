// Package core provides the foundational domain types shared by every
// beachparty agent:
//
//   - Query (inbound request text plus an opaque session id)
//   - Content / Part (role-based message content handed to language models)
//   - TaskEvent and Lifecycle (the progress vocabulary every executor honors)
//   - Failure and the recovery policy table (how each failure kind degrades)
//
// The package has no knowledge of transports, providers or tools; those
// packages depend on core, never the other way around.
package core
