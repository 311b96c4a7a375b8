package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/uknown4ever/parking/internal/domain"
	"github.com/uknown4ever/parking/internal/repository"
	"github.com/uknown4ever/parking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Stubs embed the interface and override only what a test exercises;
// anything else panics loudly.

type stubSpaceRepo struct {
	repository.SpaceRepository
	findByID func(id int) (*domain.Space, error)
}

func (r *stubSpaceRepo) FindByID(ctx context.Context, id int) (*domain.Space, error) {
	return r.findByID(id)
}

type stubVehicleRepo struct {
	repository.VehicleRepository
	findByID func(id int) (*domain.Vehicle, error)
}

func (r *stubVehicleRepo) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	return r.findByID(id)
}

type stubSessionRepo struct {
	repository.SessionRepository
	open     func(session *domain.Session) (*domain.Session, error)
	findByID func(id int) (*domain.Session, error)
}

func (r *stubSessionRepo) Open(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	return r.open(session)
}

func (r *stubSessionRepo) FindByID(ctx context.Context, id int) (*domain.Session, error) {
	return r.findByID(id)
}

func newTestRouter(spaces *stubSpaceRepo, vehicles *stubVehicleRepo, sessions *stubSessionRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return SetupRouter(service.NewParkingService(spaces, vehicles, sessions, log))
}

func testSpace() *domain.Space {
	return &domain.Space{ID: 1, Label: "A-01", Kind: domain.KindStandard, Status: domain.StatusFree, HourlyRate: 3}
}

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{ID: 2, Plate: "AB-123-CD", Make: "Renault", Category: domain.CategoryStandard}
}

func TestOpenSessionEndpoint(t *testing.T) {
	sessions := &stubSessionRepo{
		open: func(s *domain.Session) (*domain.Session, error) {
			s.ID = 7
			s.Space = testSpace()
			s.Vehicle = testVehicle()
			return s, nil
		},
	}
	router := newTestRouter(
		&stubSpaceRepo{findByID: func(int) (*domain.Space, error) { return testSpace(), nil }},
		&stubVehicleRepo{findByID: func(int) (*domain.Vehicle, error) { return testVehicle(), nil }},
		sessions,
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/open",
		strings.NewReader(`{"space_id": 1, "vehicle_id": 2}`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var got domain.Session
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != 7 || got.ExitTime.Valid {
		t.Fatalf("unexpected session in response: %+v", got)
	}
}

func TestOpenSessionEndpointOccupied(t *testing.T) {
	sessions := &stubSessionRepo{
		open: func(*domain.Session) (*domain.Session, error) { return nil, repository.ErrSpaceOccupied },
	}
	router := newTestRouter(
		&stubSpaceRepo{findByID: func(int) (*domain.Space, error) { return testSpace(), nil }},
		&stubVehicleRepo{findByID: func(int) (*domain.Vehicle, error) { return testVehicle(), nil }},
		sessions,
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/open",
		strings.NewReader(`{"space_id": 1, "vehicle_id": 2}`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestCloseSessionEndpointAlreadyClosed(t *testing.T) {
	closedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := &stubSessionRepo{
		findByID: func(id int) (*domain.Session, error) {
			s := &domain.Session{ID: id, SpaceID: 1, VehicleID: 2,
				EntryTime: closedAt.Add(-time.Hour), Space: testSpace(), Vehicle: testVehicle()}
			s.ExitTime.SetValid(closedAt)
			s.Charge.SetValid(3)
			return s, nil
		},
	}
	router := newTestRouter(&stubSpaceRepo{}, &stubVehicleRepo{}, sessions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/7/close", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestSpaceEndpointNotFound(t *testing.T) {
	router := newTestRouter(
		&stubSpaceRepo{findByID: func(int) (*domain.Space, error) { return nil, repository.ErrNotFound }},
		&stubVehicleRepo{}, &stubSessionRepo{},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/spaces/5", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}
}

func TestFindSessionsEndpointBadDate(t *testing.T) {
	router := newTestRouter(&stubSpaceRepo{}, &stubVehicleRepo{}, &stubSessionRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?date_from=03-01-2025", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}
