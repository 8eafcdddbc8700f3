package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/domain"
)

func TestCreateTask(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	member := e.user(t, "Member")
	stranger := e.user(t, "Stranger")

	pv := e.project(t, owner, map[*domain.User]domain.ProjectRole{
		member: domain.ProjectRoleMember,
	})

	tv, err := e.taskSvc.Create(ctx, CreateTaskInput{
		Title:      "Write docs",
		ProjectID:  pv.ID,
		AssigneeID: &member.ID,
	}, member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, tv.Status)
	assert.Equal(t, domain.TaskPriorityMedium, tv.Priority)
	require.NotNil(t, tv.Assignee)
	assert.Equal(t, member.ID, tv.Assignee.ID)
	require.NotNil(t, tv.CreatedBy)
	assert.Equal(t, member.ID, tv.CreatedBy.ID)
	assert.Equal(t, pv.ID, tv.Project.ID)

	// A non-member cannot create, a member cannot assign outside the roster.
	_, err = e.taskSvc.Create(ctx, CreateTaskInput{Title: "x", ProjectID: pv.ID}, stranger.ID)
	requireKind(t, err, domain.KindNotAMember)

	_, err = e.taskSvc.Create(ctx, CreateTaskInput{Title: "x", ProjectID: pv.ID, AssigneeID: &stranger.ID}, member.ID)
	requireKind(t, err, domain.KindInvalidAssignee)

	_, err = e.taskSvc.Create(ctx, CreateTaskInput{Title: "  ", ProjectID: pv.ID}, member.ID)
	requireKind(t, err, domain.KindValidation)

	_, err = e.taskSvc.Create(ctx, CreateTaskInput{Title: "x", ProjectID: "nope"}, member.ID)
	requireKind(t, err, domain.KindNotFound)
}

func TestTaskUpdateAndStatusRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	assignee := e.user(t, "Assignee")
	other := e.user(t, "Other")

	pv := e.project(t, owner, map[*domain.User]domain.ProjectRole{
		assignee: domain.ProjectRoleMember,
		other:    domain.ProjectRoleMember,
	})
	tv, err := e.taskSvc.Create(ctx, CreateTaskInput{
		Title: "Triage", ProjectID: pv.ID, AssigneeID: &assignee.ID,
	}, owner.ID)
	require.NoError(t, err)

	// The assignee may move their own task even as plain MEMBER.
	got, err := e.taskSvc.UpdateStatus(ctx, tv.ID, domain.TaskStatusInProgress, assignee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, got.Status)

	// Another plain member may not.
	_, err = e.taskSvc.UpdateStatus(ctx, tv.ID, domain.TaskStatusDone, other.ID)
	requireKind(t, err, domain.KindInsufficientRole)

	// A manager always may; DONE back to TODO is legal, there is no
	// transition graph.
	got, err = e.taskSvc.UpdateStatus(ctx, tv.ID, domain.TaskStatusDone, owner.ID)
	require.NoError(t, err)
	got, err = e.taskSvc.UpdateStatus(ctx, tv.ID, domain.TaskStatusTodo, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusTodo, got.Status)

	_, err = e.taskSvc.UpdateStatus(ctx, tv.ID, "SHIPPED", owner.ID)
	requireKind(t, err, domain.KindValidation)

	// Generic update follows the same rule.
	title := "Triage inbox"
	_, err = e.taskSvc.Update(ctx, tv.ID, domain.TaskPatch{Title: &title}, other.ID)
	requireKind(t, err, domain.KindInsufficientRole)

	got, err = e.taskSvc.Update(ctx, tv.ID, domain.TaskPatch{Title: &title}, assignee.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
}

func TestTaskAssignRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	member := e.user(t, "Member")
	other := e.user(t, "Other")
	stranger := e.user(t, "Stranger")

	pv := e.project(t, owner, map[*domain.User]domain.ProjectRole{
		member: domain.ProjectRoleMember,
		other:  domain.ProjectRoleMember,
	})
	tv, err := e.taskSvc.Create(ctx, CreateTaskInput{Title: "Review", ProjectID: pv.ID}, owner.ID)
	require.NoError(t, err)

	// Assign is manager-only, even for the would-be assignee.
	_, err = e.taskSvc.Assign(ctx, tv.ID, &member.ID, member.ID)
	requireKind(t, err, domain.KindInsufficientRole)

	got, err := e.taskSvc.Assign(ctx, tv.ID, &member.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, member.ID, got.Assignee.ID)

	// Reassigning to a non-member fails and leaves the task untouched.
	_, err = e.taskSvc.Assign(ctx, tv.ID, &stranger.ID, owner.ID)
	requireKind(t, err, domain.KindInvalidAssignee)
	got, err = e.taskSvc.Get(ctx, tv.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, member.ID, got.Assignee.ID)

	// nil unassigns.
	got, err = e.taskSvc.Assign(ctx, tv.ID, nil, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Assignee)
}

func TestTaskDeleteRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	member := e.user(t, "Member")

	pv := e.project(t, owner, map[*domain.User]domain.ProjectRole{
		member: domain.ProjectRoleMember,
	})
	tv, err := e.taskSvc.Create(ctx, CreateTaskInput{
		Title: "Cleanup", ProjectID: pv.ID, AssigneeID: &member.ID,
	}, owner.ID)
	require.NoError(t, err)

	// Even the assignee cannot delete without a manager role.
	err = e.taskSvc.Remove(ctx, tv.ID, member.ID)
	requireKind(t, err, domain.KindInsufficientRole)

	require.NoError(t, e.taskSvc.Remove(ctx, tv.ID, owner.ID))

	_, err = e.taskSvc.Get(ctx, tv.ID, owner.ID)
	requireKind(t, err, domain.KindNotFound)

	err = e.taskSvc.Remove(ctx, tv.ID, owner.ID)
	requireKind(t, err, domain.KindNotFound)
}

func TestDeletedProjectHidesItsTasks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")

	pv := e.project(t, owner, nil)
	tv, err := e.taskSvc.Create(ctx, CreateTaskInput{
		Title: "Orphan", ProjectID: pv.ID, AssigneeID: &owner.ID,
	}, owner.ID)
	require.NoError(t, err)

	require.NoError(t, e.projectSvc.Remove(ctx, pv.ID, owner.ID))

	// The task row is still active, but its project is gone: every read path
	// treats it as missing.
	_, err = e.taskSvc.Get(ctx, tv.ID, owner.ID)
	requireKind(t, err, domain.KindNotFound)

	mine, err := e.taskSvc.ListMine(ctx, owner.ID, domain.TaskFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, mine.Data)

	_, err = e.taskSvc.ListByProject(ctx, pv.ID, owner.ID)
	requireKind(t, err, domain.KindNotFound)
}

func TestListMineFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	member := e.user(t, "Member")

	pv := e.project(t, owner, map[*domain.User]domain.ProjectRole{
		member: domain.ProjectRoleMember,
	})

	t1, err := e.taskSvc.Create(ctx, CreateTaskInput{
		Title: "Alpha", ProjectID: pv.ID, AssigneeID: &member.ID,
	}, owner.ID)
	require.NoError(t, err)
	_, err = e.taskSvc.Create(ctx, CreateTaskInput{
		Title: "Beta", ProjectID: pv.ID, AssigneeID: &member.ID,
	}, owner.ID)
	require.NoError(t, err)
	// Owner's own task: not member's.
	_, err = e.taskSvc.Create(ctx, CreateTaskInput{
		Title: "Not mine", ProjectID: pv.ID, AssigneeID: &owner.ID,
	}, owner.ID)
	require.NoError(t, err)

	mine, err := e.taskSvc.ListMine(ctx, member.ID, domain.TaskFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mine.Data, 2)
	assert.Equal(t, int64(2), mine.Meta.Total)

	todo := domain.TaskStatusTodo
	done := domain.TaskStatusDone
	_, err = e.taskSvc.UpdateStatus(ctx, t1.ID, done, member.ID)
	require.NoError(t, err)

	open, err := e.taskSvc.ListMine(ctx, member.ID, domain.TaskFilter{Status: &todo, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, open.Data, 1)
	assert.Equal(t, "Beta", open.Data[0].Title)

	closed, err := e.taskSvc.ListMine(ctx, member.ID, domain.TaskFilter{Status: &done, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, closed.Data, 1)
	assert.Equal(t, t1.ID, closed.Data[0].ID)

	bad := domain.TaskStatus("NOPE")
	_, err = e.taskSvc.ListMine(ctx, member.ID, domain.TaskFilter{Status: &bad})
	requireKind(t, err, domain.KindValidation)
}

func TestRemovedMemberLosesTaskAccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "Owner")
	member := e.user(t, "Member")

	pv := e.project(t, owner, map[*domain.User]domain.ProjectRole{
		member: domain.ProjectRoleMember,
	})
	tv, err := e.taskSvc.Create(ctx, CreateTaskInput{
		Title: "Handover", ProjectID: pv.ID, AssigneeID: &member.ID,
	}, owner.ID)
	require.NoError(t, err)

	_, err = e.projectSvc.RemoveMember(ctx, pv.ID, member.ID, owner.ID)
	require.NoError(t, err)

	// Authorization reads the ledger fresh: the ex-member is a stranger now,
	// assignee column notwithstanding.
	_, err = e.taskSvc.Get(ctx, tv.ID, member.ID)
	requireKind(t, err, domain.KindNotAMember)

	_, err = e.taskSvc.UpdateStatus(ctx, tv.ID, domain.TaskStatusDone, member.ID)
	requireKind(t, err, domain.KindNotAMember)
}
