package budget

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Tawhide16/CampusKit/core"
)

var (
	// errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("cannot delete a category that has transactions")
	ErrCategoryTypeInUse   = errors.New("cannot change the type of a category that has transactions")
	ErrUnknownCategory     = errors.New("category does not exist for this type")
	ErrCategoryExists      = errors.New("a category with this name already exists")
)

// Service owns the transactions and categories of one budget store.
// Both lists are persisted together under StorageKey after every change.
type Service struct {
	mu       sync.RWMutex
	store    *core.Storage
	txs      *core.Collection[int64, Transaction]
	cats     *core.Collection[int64, Category]
	validate *validator.Validate
	nowFunc  func() time.Time
	rnd      *rand.Rand
	lastID   int64
}

// NewService loads the budget from store, seeding (and persisting) the default categories when none are stored.
func NewService(store *core.Storage, validate *validator.Validate) *Service {
	data := core.Load(store, StorageKey, Data{})
	svc := &Service{
		store:    store,
		validate: validate,
		nowFunc:  time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	seed := len(data.Categories) == 0
	if seed {
		data.Categories = DefaultCategories()
	}
	for _, tx := range data.Transactions {
		if tx.ID > svc.lastID {
			svc.lastID = tx.ID
		}
	}
	for _, cat := range data.Categories {
		if cat.ID > svc.lastID {
			svc.lastID = cat.ID
		}
	}

	svc.txs = core.NewCollection(data.Transactions, core.CollectionOptions[int64, Transaction]{
		Name: "transactions",
		ID:   func(tx Transaction) int64 { return tx.ID },
		AssignID: func(tx Transaction) Transaction {
			tx.ID = svc.nextID()
			return tx
		},
		Save: func(txs []Transaction) { svc.save(txs, svc.cats.Items()) },
	})
	svc.cats = core.NewCollection(data.Categories, core.CollectionOptions[int64, Category]{
		Name: "categories",
		ID:   func(cat Category) int64 { return cat.ID },
		AssignID: func(cat Category) Category {
			cat.ID = svc.nextID()
			return cat
		},
		Save: func(cats []Category) { svc.save(svc.txs.Items(), cats) },
	})

	if seed {
		svc.save(svc.txs.Items(), svc.cats.Items())
	}
	return svc
}

func (svc *Service) save(txs []Transaction, cats []Category) {
	svc.store.Save(StorageKey, Data{Transactions: txs, Categories: cats})
}

// nextID returns a millisecond timestamp, bumped past the last one handed out so ids stay unique.
func (svc *Service) nextID() int64 {
	id := svc.nowFunc().UnixNano() / int64(time.Millisecond)
	if id <= svc.lastID {
		id = svc.lastID + 1
	}
	svc.lastID = id
	return id
}

func (svc *Service) randomColor() string {
	return fmt.Sprintf("#%06x", svc.rnd.Intn(0x1000000))
}

// Subscribe registers obs on both the transactions and the categories.
func (svc *Service) Subscribe(obs core.Observer) func() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	cancelTxs := svc.txs.Subscribe(obs)
	cancelCats := svc.cats.Subscribe(obs)
	return func() {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		cancelTxs()
		cancelCats()
	}
}

// Data returns a snapshot of the whole budget.
func (svc *Service) Data() Data {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return Data{Transactions: svc.txs.Items(), Categories: svc.cats.Items()}
}

func (svc *Service) hasCategory(name, typ string) bool {
	for _, cat := range svc.cats.Items() {
		if cat.Name == name && cat.Type == typ {
			return true
		}
	}
	return false
}

func (svc *Service) categoryInUse(name string) bool {
	for _, tx := range svc.txs.Items() {
		if tx.Category == name {
			return true
		}
	}
	return false
}

func unknownCategoryError() error {
	return core.NewValidationError(
		ErrUnknownCategory,
		core.FieldError{Field: "category", Error: ErrUnknownCategory.Error()},
	)
}

func (svc *Service) AddTransaction(nt NewTransaction) (Transaction, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Transaction{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if !svc.hasCategory(nt.Category, nt.Type) {
		return Transaction{}, unknownCategoryError()
	}
	txs := svc.txs.Add(Transaction{
		Title:    nt.Title,
		Amount:   *nt.Amount,
		Type:     nt.Type,
		Category: nt.Category,
		Date:     nt.Date,
	})
	return txs[len(txs)-1], nil
}

func (svc *Service) UpdateTransaction(id int64, nt NewTransaction) (Transaction, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Transaction{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, ok := svc.txs.Get(id); !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	if !svc.hasCategory(nt.Category, nt.Type) {
		return Transaction{}, unknownCategoryError()
	}
	svc.txs.Update(id, func(tx Transaction) Transaction {
		tx.Title = nt.Title
		tx.Amount = *nt.Amount
		tx.Type = nt.Type
		tx.Category = nt.Category
		tx.Date = nt.Date
		return tx
	})
	tx, _ := svc.txs.Get(id)
	return tx, nil
}

func (svc *Service) DeleteTransaction(id int64) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, ok := svc.txs.Remove(id); !ok {
		return ErrTransactionNotFound
	}
	return nil
}

func (svc *Service) GetTransaction(id int64) (Transaction, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	tx, ok := svc.txs.Get(id)
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, nil
}

// Transactions lists the transactions within the filter's range, most recent first.
func (svc *Service) Transactions(filter QueryFilter) ([]Transaction, error) {
	if err := filter.Validate(svc.validate); err != nil {
		return nil, err
	}

	svc.mu.RLock()
	txs := svc.txs.List(func(tx Transaction) bool {
		return filter.Type == "" || tx.Type == filter.Type
	}, nil)
	svc.mu.RUnlock()

	return SortByDateDesc(FilterByRange(txs, filter.Range, svc.nowFunc())), nil
}

// Categories lists the categories of type typ, or all of them when typ is empty.
func (svc *Service) Categories(typ string) []Category {
	typ = core.CleanString(typ, true /* lower */)

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.cats.List(func(cat Category) bool { return typ == "" || cat.Type == typ }, nil)
}

func categoryExistsError() error {
	return core.NewValidationError(
		ErrCategoryExists,
		core.FieldError{Field: "name", Error: ErrCategoryExists.Error()},
	)
}

// AddCategory creates a category, picking a random color when none is given.
func (svc *Service) AddCategory(nc NewCategory) (Category, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Category{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.hasCategory(nc.Name, nc.Type) {
		return Category{}, categoryExistsError()
	}
	if nc.Color == "" {
		nc.Color = svc.randomColor()
	}
	cats := svc.cats.Add(Category{Name: nc.Name, Type: nc.Type, Color: nc.Color})
	return cats[len(cats)-1], nil
}

// UpdateCategory edits a category. A rename is carried over to the transactions filed under the old name.
func (svc *Service) UpdateCategory(id int64, nc NewCategory) (Category, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Category{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	old, ok := svc.cats.Get(id)
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	renamed := nc.Name != old.Name
	if (renamed || nc.Type != old.Type) && svc.hasCategory(nc.Name, nc.Type) {
		return Category{}, categoryExistsError()
	}
	if nc.Type != old.Type && svc.categoryInUse(old.Name) {
		return Category{}, ErrCategoryTypeInUse
	}
	if nc.Color == "" {
		nc.Color = old.Color
	}

	svc.cats.Update(id, func(cat Category) Category {
		cat.Name = nc.Name
		cat.Type = nc.Type
		cat.Color = nc.Color
		return cat
	})

	if renamed && svc.categoryInUse(old.Name) {
		next := svc.txs.Items()
		for i, tx := range next {
			if tx.Category == old.Name && tx.Type == old.Type {
				next[i].Category = nc.Name
			}
		}
		svc.txs.Replace(next)
	}

	cat, _ := svc.cats.Get(id)
	return cat, nil
}

// DeleteCategory removes a category unless a transaction still references its name.
func (svc *Service) DeleteCategory(id int64) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	cat, ok := svc.cats.Get(id)
	if !ok {
		return ErrCategoryNotFound
	}
	if svc.categoryInUse(cat.Name) {
		return ErrCategoryInUse
	}
	svc.cats.Remove(id)
	return nil
}

// Summary computes totals and breakdowns over the transactions within filter's range.
func (svc *Service) Summary(filter QueryFilter) (Summary, error) {
	if err := filter.Validate(svc.validate); err != nil {
		return Summary{}, err
	}

	svc.mu.RLock()
	cats, txs := svc.cats.Items(), svc.txs.Items()
	svc.mu.RUnlock()

	return Summarize(cats, txs, filter.Range, svc.nowFunc()), nil
}
