package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestProjectService_Create(t *testing.T) {
	fixed := time.Date(2026, 5, 5, 9, 0, 0, 0, time.UTC)
	projects := newProjectRepoMock()
	audit := &auditRepoMock{}
	svc := NewProjectService(projects, audit, nil)
	svc.now = func() time.Time { return fixed }

	start := fixed
	end := fixed.AddDate(0, 3, 0)
	project, err := svc.Create(context.Background(), CreateProjectInput{
		Name:      "  Q3 Platform  ",
		StartDate: &start,
		EndDate:   &end,
		ActorID:   "acct-1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if project.Name != "Q3 Platform" {
		t.Fatalf("expected trimmed name, got %q", project.Name)
	}
	if len(projects.created) != 1 {
		t.Fatalf("expected one project created, got %d", len(projects.created))
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "project.created" {
		t.Fatalf("expected project.created audit entry, got %v", audit.actions())
	}
}

func TestProjectService_CreateValidation(t *testing.T) {
	svc := NewProjectService(newProjectRepoMock(), nil, nil)

	var validationErr *ValidationError
	if _, err := svc.Create(context.Background(), CreateProjectInput{}); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for missing name, got %v", err)
	}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	if _, err := svc.Create(context.Background(), CreateProjectInput{
		Name:      "Backwards",
		StartDate: &start,
		EndDate:   &end,
	}); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for end before start, got %v", err)
	}
}

func TestProjectService_GetByIDNotFound(t *testing.T) {
	svc := NewProjectService(newProjectRepoMock(), nil, nil)
	if _, err := svc.GetByID(context.Background(), "proj-ghost"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
