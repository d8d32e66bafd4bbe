package campaign

// AgentState is the state an agent was in when it left the mission.
type AgentState int

const (
	AgentActive AgentState = iota
	AgentRouted
	AgentUnconscious
	AgentKilled
	AgentDeleted
)

func (s AgentState) String() string {
	switch s {
	case AgentActive:
		return "active"
	case AgentRouted:
		return "routed"
	case AgentUnconscious:
		return "unconscious"
	case AgentKilled:
		return "killed"
	case AgentDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Team is a mission team. Teams are hostile when their sides differ.
type Team struct {
	Side string
}

// IsEnemyOf reports whether t and other fight on opposite sides.
func (t *Team) IsEnemyOf(other *Team) bool {
	if t == nil || other == nil {
		return false
	}
	return t.Side != other.Side
}

// Agent is a battlefield participant: a soldier or a mount.
type Agent struct {
	Index int
	Human bool
	Mount bool
	// Rider is the agent riding this mount, if any.
	Rider *Agent
	// PlayerControlled is set on the main agent and on agents the player
	// controls through a mission peer.
	PlayerControlled bool
	// Hero is the persistent identity behind the agent, nil for regular troops.
	Hero *Hero
	Team *Team
}
