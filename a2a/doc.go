// Package a2a exposes beachparty agents over the agent-to-agent protocol.
//
// The server side adapts an agent.Executor to a2asrv.AgentExecutor: partial
// task events become "working" status updates and the terminal event becomes
// an artifact with the aggregated answer followed by the final status. The
// client side lets the host agent consult its peers as a retrieval step.
package a2a
