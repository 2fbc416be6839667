package models

// DependencyType is one of the four precedence relationship types.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// Valid reports whether t is one of the four known precedence types.
func (t DependencyType) Valid() bool {
	switch t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Dependency is a directed, typed precedence edge between two non-summary
// activities. Lag is a signed offset in the successor's calendar working
// units; a negative lag is a lead.
type Dependency struct {
	ID     string         `json:"id,omitempty"`
	FromID string         `json:"from_id"`
	ToID   string         `json:"to_id"`
	Type   DependencyType `json:"type"`
	Lag    int            `json:"lag"`
}
