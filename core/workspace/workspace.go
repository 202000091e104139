package workspace

import (
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/budget"
	"github.com/Tawhide16/CampusKit/core/planner"
	"github.com/Tawhide16/CampusKit/core/qabank"
	"github.com/Tawhide16/CampusKit/core/schedule"
)

// Workspace bundles the feature services persisting to one storage namespace.
type Workspace struct {
	Namespace string
	Schedules *schedule.Service
	Budget    *budget.Service
	QA        *qabank.Service
	Planner   *planner.Service
}

// InitValidators registers every feature's validation rules, on top of the global ones.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	budget.InitValidators(validate, translator)
	qabank.InitValidators(validate, translator)
}

func Open(store *core.Storage, namespace string, validate *validator.Validate) *Workspace {
	store = store.Namespace(namespace)
	return &Workspace{
		Namespace: namespace,
		Schedules: schedule.NewService(store, validate),
		Budget:    budget.NewService(store, validate),
		QA:        qabank.NewService(store, validate),
		Planner:   planner.NewService(store, validate),
	}
}

// Subscribe registers obs on every feature's collections.
func (w *Workspace) Subscribe(obs core.Observer) func() {
	cancels := []func(){
		w.Schedules.Subscribe(obs),
		w.Budget.Subscribe(obs),
		w.QA.Subscribe(obs),
		w.Planner.Subscribe(obs),
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

// Registry opens one Workspace per user, lazily, and keeps it for the process lifetime.
type Registry struct {
	mu         sync.Mutex
	store      *core.Storage
	validate   *validator.Validate
	observers  []core.Observer
	workspaces map[string]*Workspace
}

// NewRegistry returns a Registry whose workspaces all notify observers.
func NewRegistry(store *core.Storage, validate *validator.Validate, observers ...core.Observer) *Registry {
	return &Registry{
		store:      store,
		validate:   validate,
		observers:  observers,
		workspaces: make(map[string]*Workspace),
	}
}

func (r *Registry) Workspace(uid string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[uid]
	if !ok {
		ws = Open(r.store, uid, r.validate)
		for _, obs := range r.observers {
			ws.Subscribe(obs)
		}
		r.workspaces[uid] = ws
	}
	return ws
}
