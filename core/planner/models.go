package planner

import (
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
)

// StorageKey is where the study goals are persisted.
const StorageKey = "studyGoals"

// RecentGoals is the number of goals listed on the dashboard.
const RecentGoals = 5

type (
	Task struct {
		ID   string `json:"id"`
		Text string `json:"text"`
		Done bool   `json:"done"`
	}

	Goal struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Tasks []Task `json:"tasks"`
	}
)

// Completed counts the goal's done tasks.
func (g Goal) Completed() int {
	var n int
	for _, t := range g.Tasks {
		if t.Done {
			n++
		}
	}
	return n
}

// Progress is the share of done tasks as a rounded percentage, 0 for a goal without tasks.
func Progress(g Goal) int {
	return percent(g.Completed(), len(g.Tasks))
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// GoalView is a Goal along with its progress.
type GoalView struct {
	Goal
	Completed int `json:"completed"`
	Progress  int `json:"progress"`
}

func NewGoalView(g Goal) GoalView {
	return GoalView{Goal: g, Completed: g.Completed(), Progress: Progress(g)}
}

type DashboardStats struct {
	TotalGoals      int        `json:"totalGoals"`
	TotalTasks      int        `json:"totalTasks"`
	CompletedTasks  int        `json:"completedTasks"`
	OverallProgress int        `json:"overallProgress"`
	RecentGoals     []GoalView `json:"recentGoals"`
}

// Stats sums up goals for the dashboard. Recent goals are the last ones added, oldest first.
func Stats(goals []Goal) DashboardStats {
	stats := DashboardStats{TotalGoals: len(goals), RecentGoals: make([]GoalView, 0, RecentGoals)}
	for _, g := range goals {
		stats.TotalTasks += len(g.Tasks)
		stats.CompletedTasks += g.Completed()
	}
	stats.OverallProgress = percent(stats.CompletedTasks, stats.TotalTasks)

	from := len(goals) - RecentGoals
	if from < 0 {
		from = 0
	}
	for _, g := range goals[from:] {
		stats.RecentGoals = append(stats.RecentGoals, NewGoalView(g))
	}
	return stats
}

type NewGoal struct {
	Title string `json:"title" validate:"required,notblank"`
}

func (ng *NewGoal) Validate(validate *validator.Validate) error {
	ng.Title = core.CleanString(ng.Title)
	return validate.Struct(ng)
}

type NewTask struct {
	Text string `json:"text" validate:"required,notblank"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Text = core.CleanString(nt.Text)
	return validate.Struct(nt)
}
