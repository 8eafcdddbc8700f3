package domain

// Membership is the ledger of (user, role) pairs for one project, loaded fresh
// from the store per operation. It is the single source of truth the policy
// layer consults; it holds no storage knowledge.
type Membership struct {
	byUser map[string]ProjectMember
	rows   []ProjectMember
}

func NewMembership(rows []ProjectMember) Membership {
	m := Membership{byUser: make(map[string]ProjectMember, len(rows)), rows: rows}
	for _, r := range rows {
		m.byUser[r.UserID] = r
	}
	return m
}

func (m Membership) Size() int { return len(m.rows) }

func (m Membership) Members() []ProjectMember { return m.rows }

func (m Membership) Find(userID string) (ProjectMember, bool) {
	r, ok := m.byUser[userID]
	return r, ok
}

func (m Membership) Has(userID string) bool {
	_, ok := m.byUser[userID]
	return ok
}

func (m Membership) RoleOf(userID string) (ProjectRole, bool) {
	r, ok := m.byUser[userID]
	return r.Role, ok
}

// CheckAdd is the fast-path rejection for addMember; the unique
// (project_id, user_id) index remains the final authority under races.
func (m Membership) CheckAdd(userID string) error {
	if m.Has(userID) {
		return NewError(KindAlreadyMember, "user is already a member of this project")
	}
	return nil
}

// CheckRemove guards removeMember: the target must exist and must not be the owner.
func (m Membership) CheckRemove(userID string) error {
	target, ok := m.Find(userID)
	if !ok {
		return NewError(KindNotAMember, "member not found in this project")
	}
	if target.Role == ProjectRoleOwner {
		return NewError(KindOwnerProtected, "cannot remove the project owner")
	}
	return nil
}

// CheckChangeRole guards updateMemberRole: the owner's role is immutable.
func (m Membership) CheckChangeRole(userID string) error {
	target, ok := m.Find(userID)
	if !ok {
		return NewError(KindNotAMember, "member not found in this project")
	}
	if target.Role == ProjectRoleOwner {
		return NewError(KindOwnerProtected, "cannot change the owner's role")
	}
	return nil
}
