/*
Package catalog supplies task and shop-item content to the ledger.

PURPOSE:
  The ledger never stores reward amounts or prices; it asks a Gateway at
  mutation time. Content is externally managed and read-only from the
  ledger's perspective.

IMPLEMENTATIONS:
  Static is the in-process provider shipped with the platform's seed
  content. A CMS-backed gateway would implement the same interface.

VISIBILITY:
  Inactive entries behave exactly like missing ones: retired content must
  not be completable or purchasable, but historical transactions that
  reference it remain valid.
*/
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned for unknown or inactive tasks and items.
var ErrNotFound = errors.New("catalog: not found")

// =============================================================================
// CONTENT TYPES
// =============================================================================

type TaskType string

const (
	TaskVideo  TaskType = "VIDEO"
	TaskCPA    TaskType = "CPA"
	TaskSurvey TaskType = "SURVEY"
)

// Task is something a user can complete once for a GC reward.
type Task struct {
	ID                   string
	Title                string
	Description          string
	Type                 TaskType
	Reward               int64 // GC credited on completion
	RequiresVerification bool
	Active               bool
}

// Item is something a user can buy with GC.
type Item struct {
	ID          string
	Title       string
	Description string
	Price       int64 // GC per unit
	Category    string
	ImageURL    string
	Stock       int // -1 = unlimited
	Active      bool
}

// =============================================================================
// GATEWAY - Read-only content lookup
// =============================================================================

type Gateway interface {
	// Task returns the active task or ErrNotFound.
	Task(ctx context.Context, id string) (Task, error)

	// Item returns the active item or ErrNotFound.
	Item(ctx context.Context, id string) (Item, error)

	// Tasks returns all active tasks in catalog order.
	Tasks(ctx context.Context) ([]Task, error)

	// Items returns all active items in catalog order.
	Items(ctx context.Context) ([]Item, error)
}

// =============================================================================
// STATIC GATEWAY - In-process content
// =============================================================================

// Static serves a fixed content set. Safe for concurrent use: the content
// is never mutated after construction.
type Static struct {
	tasks     map[string]Task
	items     map[string]Item
	taskOrder []string
	itemOrder []string
}

var _ Gateway = (*Static)(nil)

func NewStatic(tasks []Task, items []Item) *Static {
	s := &Static{
		tasks: make(map[string]Task, len(tasks)),
		items: make(map[string]Item, len(items)),
	}
	for _, t := range tasks {
		s.tasks[t.ID] = t
		s.taskOrder = append(s.taskOrder, t.ID)
	}
	for _, it := range items {
		s.items[it.ID] = it
		s.itemOrder = append(s.itemOrder, it.ID)
	}
	return s
}

func (s *Static) Task(_ context.Context, id string) (Task, error) {
	t, ok := s.tasks[id]
	if !ok || !t.Active {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *Static) Item(_ context.Context, id string) (Item, error) {
	it, ok := s.items[id]
	if !ok || !it.Active {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (s *Static) Tasks(_ context.Context) ([]Task, error) {
	out := make([]Task, 0, len(s.taskOrder))
	for _, id := range s.taskOrder {
		if t := s.tasks[id]; t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Static) Items(_ context.Context) ([]Item, error) {
	out := make([]Item, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		if it := s.items[id]; it.Active {
			out = append(out, it)
		}
	}
	return out, nil
}
