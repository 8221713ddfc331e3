package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"guestgate/internal/config"
	apperrors "guestgate/internal/errors"
	"guestgate/internal/middleware"
	"guestgate/internal/services"
	"guestgate/internal/validator"
)

// --- mock guest service ---

type mockGuestService struct {
	contract          config.GuestContract
	getGuestFn        func(ctx context.Context, id int64) (*services.GuestRecord, error)
	updateGuestFn     func(ctx context.Context, confirmationNo int64, update services.GuestUpdate) (*services.GuestUpdateResult, error)
	updateGuestNameFn func(ctx context.Context, nameID int64, guestName string) (*services.GuestUpdateResult, error)
	calls             int
}

func (m *mockGuestService) Contract() config.GuestContract {
	if m.contract == "" {
		return config.ContractConfirmation
	}
	return m.contract
}

func (m *mockGuestService) GetGuest(ctx context.Context, id int64) (*services.GuestRecord, error) {
	m.calls++
	if m.getGuestFn != nil {
		return m.getGuestFn(ctx, id)
	}
	return &services.GuestRecord{ID: id}, nil
}

func (m *mockGuestService) UpdateGuest(ctx context.Context, confirmationNo int64, update services.GuestUpdate) (*services.GuestUpdateResult, error) {
	m.calls++
	if m.updateGuestFn != nil {
		return m.updateGuestFn(ctx, confirmationNo, update)
	}
	return &services.GuestUpdateResult{ID: confirmationNo}, nil
}

func (m *mockGuestService) UpdateGuestName(ctx context.Context, nameID int64, guestName string) (*services.GuestUpdateResult, error) {
	m.calls++
	if m.updateGuestNameFn != nil {
		return m.updateGuestNameFn(ctx, nameID, guestName)
	}
	return &services.GuestUpdateResult{ID: nameID, GuestName: guestName}, nil
}

var _ services.GuestServicer = (*mockGuestService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupGuestRouter(svc services.GuestServicer) *gin.Engine {
	handler := NewGuestHandler(svc)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/health", Health)
	r.GET("/api/guests/:"+handler.Param(), handler.GetGuest)
	r.PUT("/api/guests/:"+handler.Param(), handler.UpdateGuest)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertEnvelope(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["error"] != http.StatusText(status) {
		t.Errorf("expected error %q, got %v", http.StatusText(status), result["error"])
	}
	if message != "" && result["message"] != message {
		t.Errorf("expected message %q, got %v", message, result["message"])
	}
}

func TestHealth(t *testing.T) {
	r := setupGuestRouter(&mockGuestService{})
	rec := doRequest(r, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("expected status ok, got %s", rec.Body.String())
	}
}

func TestGuestHandler_Param(t *testing.T) {
	if got := NewGuestHandler(&mockGuestService{contract: config.ContractConfirmation}).Param(); got != "confirmationNo" {
		t.Errorf("expected confirmationNo, got %s", got)
	}
	if got := NewGuestHandler(&mockGuestService{contract: config.ContractNameID}).Param(); got != "nameId" {
		t.Errorf("expected nameId, got %s", got)
	}
}

func TestGuestHandler_GetGuest(t *testing.T) {
	t.Run("returns 200 with guest", func(t *testing.T) {
		svc := &mockGuestService{
			getGuestFn: func(_ context.Context, id int64) (*services.GuestRecord, error) {
				return &services.GuestRecord{ID: id, NameID: 7, GuestName: "Jane Doe"}, nil
			},
		}
		rec := doRequest(setupGuestRouter(svc), http.MethodGet, "/api/guests/1234", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["id"].(float64) != 1234 {
			t.Errorf("expected id 1234, got %v", result["id"])
		}
		if result["guestName"] != "Jane Doe" {
			t.Errorf("expected Jane Doe, got %v", result["guestName"])
		}
	})

	t.Run("returns 400 on non numeric id without calling service", func(t *testing.T) {
		svc := &mockGuestService{}
		rec := doRequest(setupGuestRouter(svc), http.MethodGet, "/api/guests/abc", "")

		assertEnvelope(t, rec, http.StatusBadRequest, "nameId must be a valid numeric value")
		if svc.calls != 0 {
			t.Errorf("expected no service calls, got %d", svc.calls)
		}
	})

	t.Run("names the name id parameter", func(t *testing.T) {
		svc := &mockGuestService{contract: config.ContractNameID}
		rec := doRequest(setupGuestRouter(svc), http.MethodGet, "/api/guests/12x", "")

		assertEnvelope(t, rec, http.StatusBadRequest, "nameId must be a valid numeric value")
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockGuestService{
			getGuestFn: func(_ context.Context, _ int64) (*services.GuestRecord, error) {
				return nil, apperrors.WithMessage(apperrors.ErrGuestNotFound, "Guest with nameId 42 not found")
			},
		}
		rec := doRequest(setupGuestRouter(svc), http.MethodGet, "/api/guests/42", "")

		assertEnvelope(t, rec, http.StatusNotFound, "Guest with nameId 42 not found")
	})

	t.Run("returns 500 without driver detail", func(t *testing.T) {
		svc := &mockGuestService{
			getGuestFn: func(_ context.Context, _ int64) (*services.GuestRecord, error) {
				return nil, apperrors.Wrap(apperrors.ErrGuestReadFailed, context.DeadlineExceeded)
			},
		}
		rec := doRequest(setupGuestRouter(svc), http.MethodGet, "/api/guests/42", "")

		assertEnvelope(t, rec, http.StatusInternalServerError, "An error occurred while retrieving guest information")
		if strings.Contains(rec.Body.String(), "deadline") {
			t.Errorf("response leaked internal error: %s", rec.Body.String())
		}
	})
}

func TestGuestHandler_UpdateGuest(t *testing.T) {
	t.Run("passes fields to service", func(t *testing.T) {
		var got services.GuestUpdate
		svc := &mockGuestService{
			updateGuestFn: func(_ context.Context, id int64, update services.GuestUpdate) (*services.GuestUpdateResult, error) {
				got = update
				return &services.GuestUpdateResult{
					ID:            id,
					NameID:        9,
					UpdatedFields: []string{"first_name", "address"},
					Message:       "Guest information updated successfully",
				}, nil
			},
		}
		rec := doRequest(setupGuestRouter(svc), http.MethodPut, "/api/guests/500",
			`{"first_name":"Jane","address":"1 Harbour Road"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.FirstName == nil || *got.FirstName != "Jane" {
			t.Errorf("expected first_name Jane, got %v", got.FirstName)
		}
		if got.LastName != nil {
			t.Errorf("expected last_name to be absent, got %v", *got.LastName)
		}
		result := parseJSON(t, rec)
		if result["message"] != "Guest information updated successfully" {
			t.Errorf("unexpected message %v", result["message"])
		}
		if fields := result["updatedFields"].([]interface{}); len(fields) != 2 {
			t.Errorf("expected 2 updated fields, got %v", fields)
		}
	})

	t.Run("empty body reaches service as empty update", func(t *testing.T) {
		svc := &mockGuestService{
			updateGuestFn: func(_ context.Context, _ int64, update services.GuestUpdate) (*services.GuestUpdateResult, error) {
				if update.FirstName != nil || update.Address != nil {
					t.Errorf("expected empty update, got %+v", update)
				}
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "At least one field must be provided for update (first_name, last_name, address, doc_type, doc_number)")
			},
		}
		rec := doRequest(setupGuestRouter(svc), http.MethodPut, "/api/guests/500", "")

		assertEnvelope(t, rec, http.StatusBadRequest, "At least one field must be provided for update (first_name, last_name, address, doc_type, doc_number)")
	})

	t.Run("returns 400 on wrong field type", func(t *testing.T) {
		svc := &mockGuestService{}
		rec := doRequest(setupGuestRouter(svc), http.MethodPut, "/api/guests/500", `{"doc_number":12345}`)

		assertEnvelope(t, rec, http.StatusBadRequest, "doc_number must be a string")
		if svc.calls != 0 {
			t.Errorf("expected no service calls, got %d", svc.calls)
		}
	})

	t.Run("returns 400 on malformed json", func(t *testing.T) {
		rec := doRequest(setupGuestRouter(&mockGuestService{}), http.MethodPut, "/api/guests/500", `{"first_name":`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on non numeric id", func(t *testing.T) {
		rec := doRequest(setupGuestRouter(&mockGuestService{}), http.MethodPut, "/api/guests/five", `{"first_name":"Jane"}`)

		assertEnvelope(t, rec, http.StatusBadRequest, "confirmationNo must be a valid numeric value")
	})

	t.Run("returns 404 for unknown confirmation", func(t *testing.T) {
		svc := &mockGuestService{
			updateGuestFn: func(_ context.Context, id int64, _ services.GuestUpdate) (*services.GuestUpdateResult, error) {
				return nil, apperrors.WithMessage(apperrors.ErrGuestNotFound, "Guest with confirmation number 500 not found")
			},
		}
		rec := doRequest(setupGuestRouter(svc), http.MethodPut, "/api/guests/500", `{"first_name":"Jane"}`)

		assertEnvelope(t, rec, http.StatusNotFound, "Guest with confirmation number 500 not found")
	})
}

func TestGuestHandler_UpdateGuestName(t *testing.T) {
	t.Run("passes raw name to service", func(t *testing.T) {
		var got string
		svc := &mockGuestService{
			contract: config.ContractNameID,
			updateGuestNameFn: func(_ context.Context, id int64, name string) (*services.GuestUpdateResult, error) {
				got = name
				return &services.GuestUpdateResult{ID: id, GuestName: "Jane Doe", UpdatedFields: []string{"guestName"}}, nil
			},
		}
		rec := doRequest(setupGuestRouter(svc), http.MethodPut, "/api/guests/42", `{"guestName":"  Jane Doe  "}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got != "  Jane Doe  " {
			t.Errorf("expected untrimmed name to reach service, got %q", got)
		}
		if parseJSON(t, rec)["guestName"] != "Jane Doe" {
			t.Errorf("expected guestName Jane Doe, got %s", rec.Body.String())
		}
	})

	t.Run("returns 400 on blank name", func(t *testing.T) {
		svc := &mockGuestService{contract: config.ContractNameID}
		rec := doRequest(setupGuestRouter(svc), http.MethodPut, "/api/guests/42", `{"guestName":"   "}`)

		assertEnvelope(t, rec, http.StatusBadRequest, "guestName is required and must not be blank")
		if svc.calls != 0 {
			t.Errorf("expected no service calls, got %d", svc.calls)
		}
	})

	t.Run("returns 400 on empty body", func(t *testing.T) {
		svc := &mockGuestService{contract: config.ContractNameID}
		rec := doRequest(setupGuestRouter(svc), http.MethodPut, "/api/guests/42", "")

		assertEnvelope(t, rec, http.StatusBadRequest, "guestName is required and must not be blank")
	})

	t.Run("returns 404 on zero affected rows", func(t *testing.T) {
		svc := &mockGuestService{
			contract: config.ContractNameID,
			updateGuestNameFn: func(_ context.Context, _ int64, _ string) (*services.GuestUpdateResult, error) {
				return nil, apperrors.WithMessage(apperrors.ErrGuestNotFound, "Guest with nameId 42 not found")
			},
		}
		rec := doRequest(setupGuestRouter(svc), http.MethodPut, "/api/guests/42", `{"guestName":"  Jane Doe  "}`)

		assertEnvelope(t, rec, http.StatusNotFound, "Guest with nameId 42 not found")
	})
}
