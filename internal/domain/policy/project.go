// Package policy holds the pure authorization decision functions. A decision
// takes the operation, the project's membership ledger and the acting user and
// returns nil (allow) or a *domain.Error carrying the deny reason. Nothing in
// this package touches storage or transport.
package policy

import "taskhub/internal/domain"

type ProjectOp uint8

const (
	ProjectView ProjectOp = iota + 1
	ProjectUpdate
	ProjectDelete
	ProjectAddMember
	ProjectRemoveMember
	ProjectChangeRole
)

// CanProject evaluates the actor-side rule for op.
//
// VIEW requires any membership; UPDATE and the member mutations require
// OWNER or ADMIN; DELETE requires OWNER. Target-side checks for the member
// mutations live in CanAddMember / CanRemoveMember / CanChangeRole, which
// gate through here first.
func CanProject(op ProjectOp, ms domain.Membership, actorID string) error {
	member, ok := ms.Find(actorID)
	if !ok {
		return domain.NewError(domain.KindNotAMember, "you are not a member of this project")
	}

	switch op {
	case ProjectView:
		return nil
	case ProjectUpdate, ProjectAddMember, ProjectRemoveMember, ProjectChangeRole:
		if !member.Role.Manager() {
			return domain.NewError(domain.KindInsufficientRole, "only project owner or admin can do this")
		}
		return nil
	case ProjectDelete:
		if member.Role != domain.ProjectRoleOwner {
			return domain.NewError(domain.KindOwnerOnly, "only the project owner can delete it")
		}
		return nil
	}
	return domain.NewError(domain.KindValidation, "unknown project operation")
}

// CanAddMember gates ADD_MEMBER. The target user is looked up by the caller
// and passed in (nil when missing or inactive) so the decision stays pure.
func CanAddMember(ms domain.Membership, actorID string, target *domain.User) error {
	if err := CanProject(ProjectAddMember, ms, actorID); err != nil {
		return err
	}
	if target == nil || !target.Active {
		return domain.NewError(domain.KindTargetUserNotFound, "user not found")
	}
	return ms.CheckAdd(target.ID)
}

// CanRemoveMember gates REMOVE_MEMBER; the owner can never be removed,
// regardless of who asks.
func CanRemoveMember(ms domain.Membership, actorID, targetUserID string) error {
	if err := CanProject(ProjectRemoveMember, ms, actorID); err != nil {
		return err
	}
	return ms.CheckRemove(targetUserID)
}

// CanChangeRole gates CHANGE_ROLE; the owner's role is immutable.
func CanChangeRole(ms domain.Membership, actorID, targetUserID string) error {
	if err := CanProject(ProjectChangeRole, ms, actorID); err != nil {
		return err
	}
	return ms.CheckChangeRole(targetUserID)
}
