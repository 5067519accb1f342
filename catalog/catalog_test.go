package catalog

import (
	"context"
	"errors"
	"testing"
)

func testStatic() *Static {
	return NewStatic(
		[]Task{
			{ID: "survey", Title: "Complete Survey", Type: TaskSurvey, Reward: 50, Active: true},
			{ID: "retired", Title: "Retired Offer", Type: TaskCPA, Reward: 500, Active: false},
			{ID: "video", Title: "Watch Video", Type: TaskVideo, Reward: 10, Active: true},
		},
		[]Item{
			{ID: "gift-card", Title: "Gift Card", Price: 1250, Active: true},
			{ID: "sold-out", Title: "Sold Out", Price: 100, Active: false},
		},
	)
}

func TestStatic_Lookup(t *testing.T) {
	s := testStatic()
	ctx := context.Background()

	task, err := s.Task(ctx, "survey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Reward != 50 {
		t.Errorf("expected reward 50, got %d", task.Reward)
	}

	item, err := s.Item(ctx, "gift-card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Price != 1250 {
		t.Errorf("expected price 1250, got %d", item.Price)
	}
}

func TestStatic_UnknownIsNotFound(t *testing.T) {
	s := testStatic()
	ctx := context.Background()

	if _, err := s.Task(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Item(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStatic_InactiveBehavesAsMissing(t *testing.T) {
	// Retired content is invisible to lookups and listings alike.

	s := testStatic()
	ctx := context.Background()

	if _, err := s.Task(ctx, "retired"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for inactive task, got %v", err)
	}
	if _, err := s.Item(ctx, "sold-out"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for inactive item, got %v", err)
	}

	tasks, _ := s.Tasks(ctx)
	for _, task := range tasks {
		if task.ID == "retired" {
			t.Error("inactive task leaked into the listing")
		}
	}
	items, _ := s.Items(ctx)
	for _, item := range items {
		if item.ID == "sold-out" {
			t.Error("inactive item leaked into the listing")
		}
	}
}

func TestStatic_ListingsPreserveOrder(t *testing.T) {
	s := testStatic()

	tasks, err := s.Tasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"survey", "video"}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, tasks[i].ID)
		}
	}
}

func TestSeed(t *testing.T) {
	s := Seed()
	ctx := context.Background()

	tasks, err := s.Tasks(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 8 {
		t.Errorf("expected 8 seed tasks, got %d", len(tasks))
	}
	items, err := s.Items(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 8 {
		t.Errorf("expected 8 seed items, got %d", len(items))
	}

	for _, task := range tasks {
		if task.Reward <= 0 {
			t.Errorf("task %s has non-positive reward %d", task.ID, task.Reward)
		}
	}
	for _, item := range items {
		if item.Price <= 0 {
			t.Errorf("item %s has non-positive price %d", item.ID, item.Price)
		}
	}

	// The flagship offer anchors the GC exchange rate.
	card, err := s.Item(ctx, "amazon-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Price != 1250 {
		t.Errorf("expected $5 card to cost 1250 GC, got %d", card.Price)
	}
}
