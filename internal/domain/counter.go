package domain

// AgentRoundRobinKey names the single counter used for agent assignment.
const AgentRoundRobinKey = "agent_rr_index"

// Counter is a named integer register. Exactly one row exists per key; the
// round-robin counter is created lazily at zero on the first ticket and never
// deleted.
type Counter struct {
	Key   string
	Value int
}
