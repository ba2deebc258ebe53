package vehicle

import (
	"context"
	"errors"
	"testing"
	"time"

	"garden-planner-go/internal/domain/validation"
	"gorm.io/gorm"
)

type fakeRepo struct {
	vehicles    map[string]*Vehicle
	assignments map[string]string // user id -> vehicle id
	txCount     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		vehicles:    make(map[string]*Vehicle),
		assignments: make(map[string]string),
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	r.txCount++
	return fn(r)
}

func (r *fakeRepo) active(id string) (*Vehicle, bool) {
	v, ok := r.vehicles[id]
	if !ok || v.DeletedAt.Valid {
		return nil, false
	}
	return v, true
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Vehicle, error) {
	result := make([]Vehicle, 0)
	for _, v := range r.vehicles {
		if !v.DeletedAt.Valid {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	v, ok := r.active(id)
	if !ok {
		return nil, ErrVehicleNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.active(id)
	return ok, nil
}

func (r *fakeRepo) Create(ctx context.Context, vehicle *Vehicle) error {
	copied := *vehicle
	r.vehicles[vehicle.ID] = &copied
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, vehicle *Vehicle, expectedVersion int64) (bool, error) {
	stored, ok := r.active(vehicle.ID)
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	copied := *vehicle
	copied.Version = expectedVersion + 1
	r.vehicles[vehicle.ID] = &copied
	return true, nil
}

func (r *fakeRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	v, ok := r.active(id)
	if !ok {
		return false, nil
	}
	v.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
	return true, nil
}

func (r *fakeRepo) ClearAssignments(ctx context.Context, vehicleID string) error {
	for userID, assigned := range r.assignments {
		if assigned == vehicleID {
			delete(r.assignments, userID)
		}
	}
	return nil
}

func TestCreateNormalizesPlate(t *testing.T) {
	svc := NewService(newFakeRepo())

	v, err := svc.Create(context.Background(), CreateInput{Brand: "Ford", Model: "Transit", LicensePlate: " vx-123-b "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.LicensePlate != "VX-123-B" {
		t.Fatalf("expected upper-cased plate, got %q", v.LicensePlate)
	}
}

func TestCreateRequiresBrandAndPlate(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateInput{Model: "Transit"})
	verr, ok := validation.As(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	if !fields["brand"] || !fields["licensePlate"] {
		t.Fatalf("expected brand and licensePlate errors, got %+v", verr.Fields)
	}
}

func TestDeleteClearsAssignments(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	v, _ := svc.Create(context.Background(), CreateInput{Brand: "Iveco", LicensePlate: "AB-12-CD"})
	repo.assignments["user-1"] = v.ID
	repo.assignments["user-2"] = "other"

	if err := svc.Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.assignments["user-1"]; ok {
		t.Fatalf("expected assignment cleared")
	}
	if repo.assignments["user-2"] != "other" {
		t.Fatalf("expected unrelated assignment kept")
	}
	if repo.txCount != 1 {
		t.Fatalf("expected delete inside a transaction")
	}

	if _, err := svc.Get(context.Background(), v.ID); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	items, _ := svc.List(context.Background(), ListFilter{})
	if len(items) != 0 {
		t.Fatalf("expected deleted vehicle excluded, got %+v", items)
	}
	if err := svc.Delete(context.Background(), v.ID); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestUpdateCopiesFields(t *testing.T) {
	svc := NewService(newFakeRepo())
	v, _ := svc.Create(context.Background(), CreateInput{Brand: "Iveco", LicensePlate: "AB-12-CD"})

	updated, err := svc.Update(context.Background(), v.ID, UpdateInput{Brand: "Iveco", Model: "Daily", LicensePlate: "ab-12-cd"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Model != "Daily" || updated.Version != 2 {
		t.Fatalf("unexpected update result %+v", updated)
	}
}
