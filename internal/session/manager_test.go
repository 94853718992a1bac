package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/codeadapt/learn-gateway/internal/session"
)

func TestManager_OpenIsIdempotent(t *testing.T) {
	f := newFixture(t, 3)
	m := session.NewManager(f.deps, time.Hour)
	ctx := context.Background()

	a, err := m.Open(ctx, 7, courseID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	b, _ := m.Open(ctx, 7, courseID)
	if a != b {
		t.Error("Open() returned a different controller for the same learner and course")
	}
	other, _ := m.Open(ctx, 8, courseID)
	if other == a {
		t.Error("different learners share a controller")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if len(a.View().Topics) != 3 {
		t.Errorf("session topics = %d, want 3", len(a.View().Topics))
	}
}

func TestManager_Close(t *testing.T) {
	f := newFixture(t, 1)
	m := session.NewManager(f.deps, time.Hour)
	ctx := context.Background()

	c, _ := m.Open(ctx, 7, courseID)
	if !m.Close(ctx, 7, courseID) {
		t.Fatal("Close() = false for an open session")
	}
	if m.Close(ctx, 7, courseID) {
		t.Error("Close() = true for a closed session")
	}
	if _, ok := m.Get(7, courseID); ok {
		t.Error("Get() found a closed session")
	}
	if _, err := c.SelectTopic(ctx, 1); err != session.ErrSessionClosed {
		t.Errorf("SelectTopic() on closed controller error = %v", err)
	}

	fresh, _ := m.Open(ctx, 7, courseID)
	if fresh == c {
		t.Error("Open() after Close() reused the closed controller")
	}
}

func TestManager_Sweep(t *testing.T) {
	f := newFixture(t, 1)
	m := session.NewManager(f.deps, time.Minute)
	ctx := context.Background()
	_, _ = m.Open(ctx, 7, courseID)

	if n := m.Sweep(ctx, time.Now()); n != 0 {
		t.Errorf("Sweep(now) removed %d, want 0", n)
	}
	if n := m.Sweep(ctx, time.Now().Add(2*time.Minute)); n != 1 {
		t.Errorf("Sweep(+2m) removed %d, want 1", n)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after sweep", m.Len())
	}
}

func TestManager_SweepSkipsAttached(t *testing.T) {
	f := newFixture(t, 2)
	m := session.NewManager(f.deps, time.Minute)
	ctx := context.Background()

	held, release, err := m.Attach(ctx, 7, courseID)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if _, err := held.SelectTopic(ctx, 1); err != nil {
		t.Fatal(err)
	}
	answer(t, held, 5)

	if n := m.Sweep(ctx, time.Now().Add(2*time.Hour)); n != 0 {
		t.Fatalf("Sweep() removed %d attached sessions", n)
	}
	if _, err := held.Submit(ctx); err != nil {
		t.Errorf("Submit() on attached session error = %v", err)
	}
	if again, _ := m.Open(ctx, 7, courseID); again != held {
		t.Error("Open() did not return the attached session")
	}

	release()
	release()
	if n := m.Sweep(ctx, time.Now().Add(2*time.Minute)); n != 1 {
		t.Errorf("Sweep() after release removed %d, want 1", n)
	}
}

func TestManager_AttachReplacesClosed(t *testing.T) {
	f := newFixture(t, 1)
	m := session.NewManager(f.deps, time.Hour)
	ctx := context.Background()

	old, _ := m.Open(ctx, 7, courseID)
	old.Close(ctx)

	c, release, err := m.Attach(ctx, 7, courseID)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	defer release()
	if c == old {
		t.Error("Attach() returned a closed controller")
	}
}
