package models

// TaskRelationKind classifies a task relative to one viewer.
type TaskRelationKind string

const (
	// RelationOwned: the viewer created the task and nobody delegated it.
	RelationOwned TaskRelationKind = "owned"
	// RelationDelegatedToSelf: the task is assigned to the viewer.
	RelationDelegatedToSelf TaskRelationKind = "delegated_to_self"
	// RelationDelegatedBySelf: the viewer assigned the task to someone else.
	RelationDelegatedBySelf TaskRelationKind = "delegated_by_self"
	RelationUnrelated       TaskRelationKind = "unrelated"
)

// TaskRelation is the tagged result of Task.RelationTo. Counterpart is the
// delegating user for DelegatedToSelf and the assignee for DelegatedBySelf;
// it is nil otherwise.
type TaskRelation struct {
	Kind        TaskRelationKind `json:"kind"`
	Counterpart *uint64          `json:"counterpart,omitempty"`
}

// IsOwn reports the "own/unassigned" category.
func (r TaskRelation) IsOwn() bool {
	return r.Kind == RelationOwned
}

// IsAssignment reports the "assignment-related" category.
func (r TaskRelation) IsAssignment() bool {
	return r.Kind == RelationDelegatedToSelf || r.Kind == RelationDelegatedBySelf
}

// RelationTo classifies the task for viewer. Exactly one of IsOwn,
// IsAssignment or Kind == RelationUnrelated holds for any result.
func (t Task) RelationTo(viewer uint64) TaskRelation {
	switch {
	case equalID(t.AssignedTo, viewer):
		return TaskRelation{Kind: RelationDelegatedToSelf, Counterpart: copyID(t.AssignedBy)}
	case equalID(t.AssignedBy, viewer):
		return TaskRelation{Kind: RelationDelegatedBySelf, Counterpart: copyID(t.AssignedTo)}
	case t.UserID == viewer && t.AssignedTo == nil && t.AssignedBy == nil:
		return TaskRelation{Kind: RelationOwned}
	default:
		return TaskRelation{Kind: RelationUnrelated}
	}
}

func copyID(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
