// Package viewstate tracks which grouping dimension and entity the dashboard
// has selected, and persists that across process restarts.
package viewstate

// Dimension values for the scope filter.
const (
	DimensionBoss       = "boss"
	DimensionDepartment = "department"
)

// OwnerSelection identifies a drilled-down owner.
type OwnerSelection struct {
	Owner      string `json:"owner"`
	Boss       string `json:"boss,omitempty"`
	Department string `json:"department"`
}

// State is the selection state. Owner and Group are mutually exclusive -
// every transition that sets one clears the other.
type State struct {
	ScopeDimension string          `json:"scopeDimension"`
	ScopeValue     string          `json:"currentScopeValue"`
	Owner          *OwnerSelection `json:"selectedOwner"`
	Group          string          `json:"selectedGroup,omitempty"`
}

// DefaultState is the aggregate department view with nothing selected.
func DefaultState() State {
	return State{ScopeDimension: DimensionDepartment}
}

// IsAggregateView reports whether the rolled-up chart is showing, which is
// the case whenever no scope filter is applied.
func (s *State) IsAggregateView() bool {
	return s.ScopeValue == ""
}

// SetScope applies the scope filter dropdown: empty re-enters the aggregate
// view. Either way both selections are cleared.
func (s *State) SetScope(dimension, value string) {
	if dimension == DimensionBoss {
		s.ScopeDimension = DimensionBoss
	} else {
		s.ScopeDimension = DimensionDepartment
	}
	s.ScopeValue = value
	s.Owner = nil
	s.Group = ""
}

// SelectGroup records a click on an aggregate chart bar.
func (s *State) SelectGroup(name string) {
	s.Group = name
	s.Owner = nil
}

// SelectOwner records a click on a drilled-down chart bar or a search pick:
// the scope filter follows the owner's boss or department and the aggregate
// view is left.
func (s *State) SelectOwner(sel OwnerSelection) {
	s.Owner = &sel
	s.Group = ""
	if s.ScopeDimension == DimensionBoss && sel.Boss != "" {
		s.ScopeValue = sel.Boss
	} else {
		s.ScopeDimension = DimensionDepartment
		s.ScopeValue = sel.Department
	}
}

// SelectionKey is the stable tag for the current selection, used to mark
// bulk comment loads so late-arriving batches for an older selection can be
// discarded.
func (s *State) SelectionKey() string {
	if s.Owner != nil {
		return "owner:" + s.Owner.Owner + "|" + s.Owner.Department
	}
	if s.Group != "" {
		return "group:" + s.Group
	}
	return ""
}
