package appointmenttype

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"garden-planner-go/internal/domain/common"
	"garden-planner-go/internal/domain/validation"
	"gorm.io/gorm"
)

type fakeRepo struct {
	items   map[string]*AppointmentType
	creates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*AppointmentType)}
}

func (r *fakeRepo) active(id string) (*AppointmentType, bool) {
	item, ok := r.items[id]
	if !ok || item.DeletedAt.Valid {
		return nil, false
	}
	return item, true
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]AppointmentType, error) {
	result := make([]AppointmentType, 0)
	for _, item := range r.items {
		if item.DeletedAt.Valid {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Query)) {
			continue
		}
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*AppointmentType, error) {
	item, ok := r.active(id)
	if !ok {
		return nil, ErrAppointmentTypeNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.active(id)
	return ok, nil
}

func (r *fakeRepo) Create(ctx context.Context, item *AppointmentType) error {
	r.creates++
	copied := *item
	copied.CreatedAt = time.Now().UTC()
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, item *AppointmentType, expectedVersion int64) (bool, error) {
	stored, ok := r.active(item.ID)
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	copied := *item
	copied.Version = expectedVersion + 1
	r.items[item.ID] = &copied
	return true, nil
}

func (r *fakeRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	item, ok := r.active(id)
	if !ok {
		return false, nil
	}
	item.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
	return true, nil
}

func TestCreateAndGet(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateInput{Name: "  Snoeien ", Description: "Hagen en struiken", Color: "#00AA00"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Name != "Snoeien" || created.Color != "#00aa00" || created.Version != 1 {
		t.Fatalf("unexpected created type %+v", created)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Name != created.Name || got.Description != created.Description || got.Color != created.Color {
		t.Fatalf("expected %+v, got %+v", created, got)
	}
}

func TestCreateValidationDoesNotTouchStore(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{Name: " ", Color: "green"})
	verr, ok := validation.As(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected name and color errors, got %+v", verr.Fields)
	}
	if repo.creates != 0 {
		t.Fatalf("expected no store writes, got %d", repo.creates)
	}
}

func TestGetReservedID(t *testing.T) {
	svc := NewService(newFakeRepo())
	if _, err := svc.Get(context.Background(), common.ReservedID); !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("expected not found for reserved id, got %v", err)
	}
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Update(context.Background(), "missing", UpdateInput{Name: "Maaien"})
	if !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	created, _ := svc.Create(context.Background(), CreateInput{Name: "Maaien"})

	v1 := int64(1)
	if _, err := svc.Update(context.Background(), created.ID, UpdateInput{Name: "Gazon maaien", Version: &v1}); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	_, err := svc.Update(context.Background(), created.ID, UpdateInput{Name: "Gras maaien", Version: &v1})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected conflict for stale version, got %v", err)
	}

	got, _ := svc.Get(context.Background(), created.ID)
	if got.Name != "Gazon maaien" || got.Version != 2 {
		t.Fatalf("expected first write to stick, got %+v", got)
	}
}

func TestUpdateLosesRaceToDelete(t *testing.T) {
	repo := newFakeRepo()
	created, _ := NewService(repo).Create(context.Background(), CreateInput{Name: "Maaien"})

	racing := &deletingRepo{fakeRepo: repo}
	svc := NewService(racing)

	_, err := svc.Update(context.Background(), created.ID, UpdateInput{Name: "Gras"})
	if !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("expected not found after concurrent delete, got %v", err)
	}
}

// deletingRepo soft-deletes the row between the read and the write.
type deletingRepo struct {
	*fakeRepo
}

func (r *deletingRepo) Update(ctx context.Context, item *AppointmentType, expectedVersion int64) (bool, error) {
	_, _ = r.fakeRepo.SoftDelete(ctx, item.ID)
	return r.fakeRepo.Update(ctx, item, expectedVersion)
}

func TestDeleteTwiceKeepsRowHidden(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	keep, _ := svc.Create(context.Background(), CreateInput{Name: "Bemesten"})
	gone, _ := svc.Create(context.Background(), CreateInput{Name: "Aanplanten"})

	if err := svc.Delete(context.Background(), gone.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.Delete(context.Background(), gone.ID); !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	items, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Fatalf("expected only active type, got %+v", items)
	}
	if _, err := svc.Get(context.Background(), gone.ID); !errors.Is(err, ErrAppointmentTypeNotFound) {
		t.Fatalf("expected deleted type hidden, got %v", err)
	}
}
