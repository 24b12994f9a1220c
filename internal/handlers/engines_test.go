package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// MockEngineStore is a mock implementation of db.EngineStore
type MockEngineStore struct {
	mock.Mock
}

func (m *MockEngineStore) Insert(ctx context.Context, engine models.Engine) (int64, error) {
	args := m.Called(ctx, engine)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEngineStore) GetBySerial(ctx context.Context, serial string) (*models.Engine, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Engine), args.Error(1)
}

func (m *MockEngineStore) UpdateMileage(ctx context.Context, serial string, mileage int64) error {
	args := m.Called(ctx, serial, mileage)
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of db.ServiceHistoryStore
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) History(ctx context.Context, engineSerial string, monthsBack int) ([]models.ServiceRecord, error) {
	args := m.Called(ctx, engineSerial, monthsBack)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRecord), args.Error(1)
}

func (m *MockHistoryStore) Add(ctx context.Context, rec models.ServiceRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func TestEngineHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		engines := new(MockEngineStore)
		engines.On("GetBySerial", mock.Anything, "ENG-X15-001").Return(nil, nil)
		engines.On("Insert", mock.Anything, mock.MatchedBy(func(e models.Engine) bool {
			return e.EngineSerial == "ENG-X15-001" && e.EngineModel == "X15"
		})).Return(int64(1), nil)

		handler := NewEngineHandler(engines, new(MockHistoryStore))
		body, _ := json.Marshal(models.Engine{EngineSerial: "ENG-X15-001", EngineModel: "X15", Year: 2022})
		req := httptest.NewRequest("POST", "/api/engines", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got models.Engine
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(1), got.ID)
		engines.AssertExpectations(t)
	})

	t.Run("duplicate serial", func(t *testing.T) {
		engines := new(MockEngineStore)
		engines.On("GetBySerial", mock.Anything, "ENG-X15-001").Return(&models.Engine{ID: 1}, nil)

		handler := NewEngineHandler(engines, new(MockHistoryStore))
		body, _ := json.Marshal(models.Engine{EngineSerial: "ENG-X15-001", EngineModel: "X15"})
		req := httptest.NewRequest("POST", "/api/engines", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		handler := NewEngineHandler(new(MockEngineStore), new(MockHistoryStore))
		body, _ := json.Marshal(models.Engine{EngineSerial: "ENG-X15-001"})
		req := httptest.NewRequest("POST", "/api/engines", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEngineHandler_History(t *testing.T) {
	t.Run("default window", func(t *testing.T) {
		history := new(MockHistoryStore)
		history.On("History", mock.Anything, "ENG-X15-001", 6).Return([]models.ServiceRecord{
			{ID: 1, RepairType: "oil change"},
		}, nil)

		handler := NewEngineHandler(new(MockEngineStore), history)
		req := httptest.NewRequest("GET", "/api/engines/ENG-X15-001/history", nil)
		req.SetPathValue("serial", "ENG-X15-001")
		w := httptest.NewRecorder()

		handler.History(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []models.ServiceRecord
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 1)
		history.AssertExpectations(t)
	})

	t.Run("custom window", func(t *testing.T) {
		history := new(MockHistoryStore)
		history.On("History", mock.Anything, "ENG-X15-001", 12).Return([]models.ServiceRecord{}, nil)

		handler := NewEngineHandler(new(MockEngineStore), history)
		req := httptest.NewRequest("GET", "/api/engines/ENG-X15-001/history?months=12", nil)
		req.SetPathValue("serial", "ENG-X15-001")
		w := httptest.NewRecorder()

		handler.History(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		history.AssertExpectations(t)
	})

	t.Run("invalid window", func(t *testing.T) {
		handler := NewEngineHandler(new(MockEngineStore), new(MockHistoryStore))
		req := httptest.NewRequest("GET", "/api/engines/ENG-X15-001/history?months=-2", nil)
		req.SetPathValue("serial", "ENG-X15-001")
		w := httptest.NewRecorder()

		handler.History(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEngineHandler_AddHistory(t *testing.T) {
	t.Run("record added", func(t *testing.T) {
		history := new(MockHistoryStore)
		history.On("Add", mock.Anything, mock.MatchedBy(func(rec models.ServiceRecord) bool {
			return rec.EngineSerial == "ENG-X15-001" && rec.RepairType == "injector replacement"
		})).Return(int64(3), nil)

		handler := NewEngineHandler(new(MockEngineStore), history)
		body, _ := json.Marshal(models.ServiceRecord{
			RepairType:  "injector replacement",
			ServiceDate: time.Now().UTC(),
		})
		req := httptest.NewRequest("POST", "/api/engines/ENG-X15-001/history", bytes.NewBuffer(body))
		req.SetPathValue("serial", "ENG-X15-001")
		w := httptest.NewRecorder()

		handler.AddHistory(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got models.ServiceRecord
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(3), got.ID)
		history.AssertExpectations(t)
	})

	t.Run("missing repair type", func(t *testing.T) {
		handler := NewEngineHandler(new(MockEngineStore), new(MockHistoryStore))
		req := httptest.NewRequest("POST", "/api/engines/ENG-X15-001/history", bytes.NewBuffer([]byte(`{}`)))
		req.SetPathValue("serial", "ENG-X15-001")
		w := httptest.NewRecorder()

		handler.AddHistory(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
