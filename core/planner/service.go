package planner

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Tawhide16/CampusKit/core"
)

var (
	// errors
	ErrGoalNotFound = errors.New("goal not found")
	ErrTaskNotFound = errors.New("task not found")
)

type Service struct {
	mu       sync.RWMutex
	goals    *core.Collection[string, Goal]
	validate *validator.Validate
}

func NewService(store *core.Storage, validate *validator.Validate) *Service {
	goals := core.Load(store, StorageKey, []Goal{})
	return &Service{
		goals: core.NewCollection(goals, core.CollectionOptions[string, Goal]{
			Name: StorageKey,
			ID:   func(g Goal) string { return g.ID },
			AssignID: func(g Goal) Goal {
				g.ID = uuid.New().String()
				return g
			},
			Save: func(goals []Goal) { store.Save(StorageKey, goals) },
		}),
		validate: validate,
	}
}

func (svc *Service) Subscribe(obs core.Observer) func() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	cancel := svc.goals.Subscribe(obs)
	return func() {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		cancel()
	}
}

func (svc *Service) List() []Goal {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.goals.Items()
}

func (svc *Service) Get(id string) (Goal, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	g, ok := svc.goals.Get(id)
	if !ok {
		return Goal{}, ErrGoalNotFound
	}
	return g, nil
}

func (svc *Service) Stats() DashboardStats {
	return Stats(svc.List())
}

func (svc *Service) AddGoal(ng NewGoal) (Goal, error) {
	if err := ng.Validate(svc.validate); err != nil {
		return Goal{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	goals := svc.goals.Add(Goal{Title: ng.Title, Tasks: []Task{}})
	return goals[len(goals)-1], nil
}

// RenameGoal only changes the title; the tasks are edited through their own operations.
func (svc *Service) RenameGoal(id string, ng NewGoal) (Goal, error) {
	if err := ng.Validate(svc.validate); err != nil {
		return Goal{}, err
	}
	return svc.updateGoal(id, func(g Goal) (Goal, error) {
		g.Title = ng.Title
		return g, nil
	})
}

func (svc *Service) DeleteGoal(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, ok := svc.goals.Remove(id); !ok {
		return ErrGoalNotFound
	}
	return nil
}

// updateGoal applies patch to a copy of the goal, committing it only when patch succeeds.
func (svc *Service) updateGoal(id string, patch func(Goal) (Goal, error)) (Goal, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	g, ok := svc.goals.Get(id)
	if !ok {
		return Goal{}, ErrGoalNotFound
	}
	g.Tasks = append(make([]Task, 0, len(g.Tasks)), g.Tasks...)
	g, err := patch(g)
	if err != nil {
		return Goal{}, err
	}
	svc.goals.Update(id, func(Goal) Goal { return g })
	return g, nil
}

func (svc *Service) AddTask(goalID string, nt NewTask) (Goal, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Goal{}, err
	}
	return svc.updateGoal(goalID, func(g Goal) (Goal, error) {
		g.Tasks = append(g.Tasks, Task{ID: uuid.New().String(), Text: nt.Text})
		return g, nil
	})
}

func taskIndex(g Goal, taskID string) int {
	for i, t := range g.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

func (svc *Service) ToggleTask(goalID, taskID string) (Goal, error) {
	return svc.updateGoal(goalID, func(g Goal) (Goal, error) {
		i := taskIndex(g, taskID)
		if i < 0 {
			return g, ErrTaskNotFound
		}
		g.Tasks[i].Done = !g.Tasks[i].Done
		return g, nil
	})
}

func (svc *Service) DeleteTask(goalID, taskID string) (Goal, error) {
	return svc.updateGoal(goalID, func(g Goal) (Goal, error) {
		i := taskIndex(g, taskID)
		if i < 0 {
			return g, ErrTaskNotFound
		}
		g.Tasks = append(g.Tasks[:i], g.Tasks[i+1:]...)
		return g, nil
	})
}
