package policy

import "taskhub/internal/domain"

type TaskOp uint8

const (
	TaskView TaskOp = iota + 1
	TaskCreate
	TaskUpdate
	TaskUpdateStatus
	TaskAssign
	TaskDelete
)

// CanTask evaluates the actor-side rule for op against the task's parent
// project membership. For CREATE the task may be nil (it does not exist yet).
//
// UPDATE_STATUS shares the UPDATE rule: the current assignee may move their
// own task even as a plain MEMBER. ASSIGN and DELETE are manager-only.
func CanTask(op TaskOp, task *domain.Task, ms domain.Membership, actorID string) error {
	member, ok := ms.Find(actorID)
	if !ok {
		return domain.NewError(domain.KindNotAMember, "you are not a member of this project")
	}

	switch op {
	case TaskView, TaskCreate:
		return nil
	case TaskUpdate, TaskUpdateStatus:
		if isAssignee(task, actorID) || member.Role.Manager() {
			return nil
		}
		return domain.NewError(domain.KindInsufficientRole, "only the assignee, project owner, or admin can update this task")
	case TaskAssign:
		if !member.Role.Manager() {
			return domain.NewError(domain.KindInsufficientRole, "only project owner or admin can assign tasks")
		}
		return nil
	case TaskDelete:
		if !member.Role.Manager() {
			return domain.NewError(domain.KindInsufficientRole, "only project owner or admin can delete tasks")
		}
		return nil
	}
	return domain.NewError(domain.KindValidation, "unknown task operation")
}

// CheckAssignee: a non-null assignee must be a current member of
// the task's project. Every path that sets the assignee funnels through this,
// including the ASSIGN and UPDATE_STATUS specializations.
func CheckAssignee(ms domain.Membership, assigneeID string) error {
	if !ms.Has(assigneeID) {
		return domain.NewError(domain.KindInvalidAssignee, "assignee must be a member of the project")
	}
	return nil
}

func isAssignee(task *domain.Task, userID string) bool {
	return task != nil && task.AssigneeID != nil && *task.AssigneeID == userID
}
