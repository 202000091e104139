package planner

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/tests"
)

func setup(t *testing.T) (*Service, *core.Storage) {
	store, _ := testutil.NewStorage(t)
	validate, _ := testutil.NewValidator()
	return NewService(store, validate), store
}

func checkPersisted(t *testing.T, svc *Service, store *core.Storage) {
	t.Helper()
	assert.Equal(t, svc.List(), core.Load(store, StorageKey, []Goal(nil)))
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		want  int
	}{
		{name: "no tasks", tasks: nil, want: 0},
		{name: "none done", tasks: []Task{{ID: "1"}}, want: 0},
		{name: "one of three", tasks: []Task{{ID: "1", Done: true}, {ID: "2"}, {ID: "3"}}, want: 33},
		{name: "two of three", tasks: []Task{{ID: "1", Done: true}, {ID: "2", Done: true}, {ID: "3"}}, want: 67},
		{name: "all done", tasks: []Task{{ID: "1", Done: true}}, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(Goal{Tasks: tt.tasks}))
		})
	}
}

func TestStats(t *testing.T) {
	assert.Equal(t, DashboardStats{RecentGoals: []GoalView{}}, Stats(nil))

	goals := make([]Goal, 0, 7)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		goals = append(goals, Goal{ID: id, Title: id, Tasks: []Task{{ID: id + "1", Done: id == "a"}, {ID: id + "2"}}})
	}

	stats := Stats(goals)
	assert.Equal(t, 7, stats.TotalGoals)
	assert.Equal(t, 14, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 7, stats.OverallProgress)

	recent := make([]string, len(stats.RecentGoals))
	for i, gv := range stats.RecentGoals {
		recent[i] = gv.ID
	}
	assert.Equal(t, []string{"c", "d", "e", "f", "g"}, recent)
}

func TestService_Goals(t *testing.T) {
	svc, store := setup(t)

	_, err := svc.AddGoal(NewGoal{Title: "   "})
	var vErrs validator.ValidationErrors
	require.True(t, errors.As(err, &vErrs))
	assert.Equal(t, "title", vErrs[0].Field())
	assert.Empty(t, svc.List())

	g, err := svc.AddGoal(NewGoal{Title: " Pass the exam "})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Pass the exam", g.Title)
	assert.Equal(t, []Task{}, g.Tasks)
	checkPersisted(t, svc, store)

	t.Run("rename", func(t *testing.T) {
		_, err := svc.AddTask(g.ID, NewTask{Text: "Read chapter 1"})
		require.NoError(t, err)

		renamed, err := svc.RenameGoal(g.ID, NewGoal{Title: "Ace the exam"})
		require.NoError(t, err)
		assert.Equal(t, "Ace the exam", renamed.Title)
		assert.Len(t, renamed.Tasks, 1, "renaming keeps the tasks")

		_, err = svc.RenameGoal(g.ID, NewGoal{Title: ""})
		assert.Error(t, err)
		_, err = svc.RenameGoal("nope", NewGoal{Title: "X"})
		assert.Equal(t, ErrGoalNotFound, err)

		got, err := svc.Get(g.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ace the exam", got.Title)
		checkPersisted(t, svc, store)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteGoal(g.ID))
		assert.Equal(t, ErrGoalNotFound, svc.DeleteGoal(g.ID))
		assert.Empty(t, svc.List())
		checkPersisted(t, svc, store)
	})
}

func TestService_Tasks(t *testing.T) {
	svc, store := setup(t)
	g, err := svc.AddGoal(NewGoal{Title: "Learn Go"})
	require.NoError(t, err)

	_, err = svc.AddTask(g.ID, NewTask{Text: ""})
	assert.Error(t, err)
	_, err = svc.AddTask("nope", NewTask{Text: "Tour of Go"})
	assert.Equal(t, ErrGoalNotFound, err)

	g, err = svc.AddTask(g.ID, NewTask{Text: "Tour of Go"})
	require.NoError(t, err)
	g, err = svc.AddTask(g.ID, NewTask{Text: "Effective Go"})
	require.NoError(t, err)
	require.Len(t, g.Tasks, 2)
	first, second := g.Tasks[0], g.Tasks[1]
	assert.NotEqual(t, first.ID, second.ID)

	g, err = svc.ToggleTask(g.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, g.Tasks[0].Done)
	assert.Equal(t, 50, Progress(g))

	_, err = svc.ToggleTask(g.ID, "nope")
	assert.Equal(t, ErrTaskNotFound, err)

	g, err = svc.DeleteTask(g.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: first.ID, Text: "Tour of Go", Done: true}}, g.Tasks)
	assert.Equal(t, 100, Progress(g))

	_, err = svc.DeleteTask(g.ID, second.ID)
	assert.Equal(t, ErrTaskNotFound, err)

	checkPersisted(t, svc, store)
	stats := svc.Stats()
	assert.Equal(t, 1, stats.TotalTasks)
	assert.Equal(t, 100, stats.OverallProgress)
}

func TestService_SharedTasksAreNotMutated(t *testing.T) {
	svc, _ := setup(t)
	g, err := svc.AddGoal(NewGoal{Title: "Learn Go"})
	require.NoError(t, err)
	g, err = svc.AddTask(g.ID, NewTask{Text: "Tour of Go"})
	require.NoError(t, err)

	before := svc.List()
	_, err = svc.ToggleTask(g.ID, g.Tasks[0].ID)
	require.NoError(t, err)
	assert.False(t, before[0].Tasks[0].Done, "earlier snapshots must not change")
}
