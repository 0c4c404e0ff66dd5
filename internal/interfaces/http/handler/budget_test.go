package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	budgetapp "github.com/simpok/backend/internal/application/budget"
	"github.com/simpok/backend/internal/domain/budget"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockBudgetRepository implements budget.Repository for testing
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) Save(ctx context.Context, line *budget.BudgetLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockBudgetRepository) CreateBatch(ctx context.Context, lines []*budget.BudgetLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*budget.BudgetLine, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.BudgetLine), args.Error(1)
}

func (m *MockBudgetRepository) FindByVersionForOwner(ctx context.Context, ownerID uuid.UUID, version int, filter shared.Filter) ([]*budget.BudgetLine, int64, error) {
	args := m.Called(ctx, ownerID, version, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*budget.BudgetLine), args.Get(1).(int64), args.Error(2)
}

func (m *MockBudgetRepository) ListVersionsForOwner(ctx context.Context, ownerID uuid.UUID) ([]budget.VersionInfo, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]budget.VersionInfo), args.Error(1)
}

func (m *MockBudgetRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteByVersionForOwner(ctx context.Context, ownerID uuid.UUID, version int) (int64, error) {
	args := m.Called(ctx, ownerID, version)
	return args.Get(0).(int64), args.Error(1)
}

// Ensure mock implements the interface
var _ budget.Repository = (*MockBudgetRepository)(nil)

// Test helpers

var testOwnerID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// ownerContext simulates the owner middleware for handler tests
func ownerContext(ownerID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.OwnerIDKey, ownerID.String())
		c.Next()
	}
}

func setupBudgetTestRouter() (*gin.Engine, *MockBudgetRepository, *BudgetHandler) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockBudgetRepository)
	catalogService := budgetapp.NewCatalogService(mockRepo, nil)
	snapshotService := budgetapp.NewSnapshotService(mockRepo, nil, zap.NewNop())
	handler := NewBudgetHandler(catalogService, snapshotService)

	router := gin.New()
	router.Use(ownerContext(testOwnerID))

	return router, mockRepo, handler
}

func createTestBudgetLine(ownerID uuid.UUID, accountCode string, version int) *budget.BudgetLine {
	now := time.Now()
	line := &budget.BudgetLine{
		AccountCode: accountCode,
		AccountName: "Belanja Bahan",
		AccountType: budget.AccountTypeGoods,
		Description: "ATK dan bahan habis pakai",
		TotalAmount: decimal.NewFromInt(25000000),
		FiscalYear:  2026,
		Version:     version,
		VersionedAt: now,
	}
	line.ID = uuid.New()
	line.OwnerID = ownerID
	line.CreatedAt = now
	line.UpdatedAt = now
	return line
}

// Tests

func TestBudgetHandler_CreateLine(t *testing.T) {
	t.Run("should create budget line in current version", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.POST("/budget/lines", handler.CreateLine)

		mockRepo.On("ListVersionsForOwner", mock.Anything, testOwnerID).
			Return([]budget.VersionInfo{{Version: 2, LineCount: 4}}, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*budget.BudgetLine")).
			Return(nil)

		reqBody := budgetapp.CreateBudgetLineRequest{
			AccountCode: "521211",
			AccountName: "Belanja Bahan",
			AccountType: "GOODS",
			Description: "ATK dan bahan habis pakai",
			TotalAmount: decimal.NewFromInt(25000000),
			FiscalYear:  2026,
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/budget/lines", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "521211", data["account_code"])
		assert.Equal(t, float64(2), data["version"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 400 for missing required fields", func(t *testing.T) {
		router, _, handler := setupBudgetTestRouter()
		router.POST("/budget/lines", handler.CreateLine)

		reqBody := map[string]interface{}{
			"account_code": "521211",
			// missing account_name, account_type, description, total_amount
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/budget/lines", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should return 400 for invalid account type", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.POST("/budget/lines", handler.CreateLine)

		mockRepo.On("ListVersionsForOwner", mock.Anything, testOwnerID).
			Return([]budget.VersionInfo{}, nil)

		reqBody := budgetapp.CreateBudgetLineRequest{
			AccountCode: "521211",
			AccountName: "Belanja Bahan",
			AccountType: "SOMETHING_ELSE",
			Description: "ATK",
			TotalAmount: decimal.NewFromInt(1000),
			FiscalYear:  2026,
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/budget/lines", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, "ERR_INVALID_INPUT", errInfo["code"])
	})

	t.Run("should return 401 without owner context", func(t *testing.T) {
		gin.SetMode(gin.TestMode)

		mockRepo := new(MockBudgetRepository)
		catalogService := budgetapp.NewCatalogService(mockRepo, nil)
		snapshotService := budgetapp.NewSnapshotService(mockRepo, nil, zap.NewNop())
		handler := NewBudgetHandler(catalogService, snapshotService)

		router := gin.New()
		router.POST("/budget/lines", handler.CreateLine)

		req, _ := http.NewRequest(http.MethodPost, "/budget/lines", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBudgetHandler_GetLine(t *testing.T) {
	t.Run("should get budget line by ID", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.GET("/budget/lines/:id", handler.GetLine)

		line := createTestBudgetLine(testOwnerID, "521211", 1)

		mockRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, line.ID).
			Return(line, nil)

		req, _ := http.NewRequest(http.MethodGet, "/budget/lines/"+line.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 404 for non-existent line", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.GET("/budget/lines/:id", handler.GetLine)

		lineID := uuid.New()
		mockRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, lineID).
			Return(nil, nil)

		req, _ := http.NewRequest(http.MethodGet, "/budget/lines/"+lineID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 400 for invalid line ID", func(t *testing.T) {
		router, _, handler := setupBudgetTestRouter()
		router.GET("/budget/lines/:id", handler.GetLine)

		req, _ := http.NewRequest(http.MethodGet, "/budget/lines/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBudgetHandler_ListLines(t *testing.T) {
	t.Run("should list lines of the current version", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.GET("/budget/lines", handler.ListLines)

		lines := []*budget.BudgetLine{
			createTestBudgetLine(testOwnerID, "521211", 3),
			createTestBudgetLine(testOwnerID, "522151", 3),
		}

		mockRepo.On("ListVersionsForOwner", mock.Anything, testOwnerID).
			Return([]budget.VersionInfo{{Version: 1}, {Version: 3}}, nil)
		mockRepo.On("FindByVersionForOwner", mock.Anything, testOwnerID, 3, mock.AnythingOfType("shared.Filter")).
			Return(lines, int64(2), nil)

		req, _ := http.NewRequest(http.MethodGet, "/budget/lines", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))

		meta := response["meta"].(map[string]interface{})
		assert.Equal(t, float64(2), meta["total"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("should list lines of an explicit version", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.GET("/budget/lines", handler.ListLines)

		lines := []*budget.BudgetLine{createTestBudgetLine(testOwnerID, "521211", 1)}

		mockRepo.On("FindByVersionForOwner", mock.Anything, testOwnerID, 1, mock.AnythingOfType("shared.Filter")).
			Return(lines, int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/budget/lines?version=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "ListVersionsForOwner", mock.Anything, mock.Anything)
	})
}

func TestBudgetHandler_UpdateLine(t *testing.T) {
	t.Run("should update line without touching its version", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.PUT("/budget/lines/:id", handler.UpdateLine)

		line := createTestBudgetLine(testOwnerID, "521211", 2)

		mockRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, line.ID).
			Return(line, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*budget.BudgetLine")).
			Return(nil)

		reqBody := budgetapp.UpdateBudgetLineRequest{
			AccountCode: "521211",
			AccountName: "Belanja Bahan Revisi",
			AccountType: "GOODS",
			Description: "ATK revisi",
			TotalAmount: decimal.NewFromInt(30000000),
			FiscalYear:  2026,
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPut, "/budget/lines/"+line.ID.String(), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Belanja Bahan Revisi", data["account_name"])
		assert.Equal(t, float64(2), data["version"])

		mockRepo.AssertExpectations(t)
	})
}

func TestBudgetHandler_DeleteLine(t *testing.T) {
	t.Run("should delete budget line", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.DELETE("/budget/lines/:id", handler.DeleteLine)

		line := createTestBudgetLine(testOwnerID, "521211", 1)

		mockRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, line.ID).
			Return(line, nil)
		mockRepo.On("DeleteForOwner", mock.Anything, testOwnerID, line.ID).
			Return(nil)

		req, _ := http.NewRequest(http.MethodDelete, "/budget/lines/"+line.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)

		mockRepo.AssertExpectations(t)
	})
}

func TestBudgetHandler_ListVersions(t *testing.T) {
	t.Run("should list versions with the current one marked", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.GET("/budget/versions", handler.ListVersions)

		mockRepo.On("ListVersionsForOwner", mock.Anything, testOwnerID).
			Return([]budget.VersionInfo{
				{Version: 1, LineCount: 10},
				{Version: 2, LineCount: 12},
			}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/budget/versions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		versions := response["data"].([]interface{})
		assert.Len(t, versions, 2)

		first := versions[0].(map[string]interface{})
		second := versions[1].(map[string]interface{})
		assert.False(t, first["is_current"].(bool))
		assert.True(t, second["is_current"].(bool))

		mockRepo.AssertExpectations(t)
	})
}

func TestBudgetHandler_CreateSnapshot(t *testing.T) {
	t.Run("should snapshot the whole current version", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.POST("/budget/versions", handler.CreateSnapshot)

		lines := []*budget.BudgetLine{
			createTestBudgetLine(testOwnerID, "521211", 1),
			createTestBudgetLine(testOwnerID, "522151", 1),
		}

		mockRepo.On("ListVersionsForOwner", mock.Anything, testOwnerID).
			Return([]budget.VersionInfo{{Version: 1, LineCount: 2}}, nil)
		mockRepo.On("FindByVersionForOwner", mock.Anything, testOwnerID, 1, mock.AnythingOfType("shared.Filter")).
			Return(lines, int64(2), nil)
		mockRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*budget.BudgetLine")).
			Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/budget/versions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(1), data["from_version"])
		assert.Equal(t, float64(2), data["new_version"])
		assert.Equal(t, float64(2), data["line_count"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 422 when current version is empty", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.POST("/budget/versions", handler.CreateSnapshot)

		mockRepo.On("ListVersionsForOwner", mock.Anything, testOwnerID).
			Return([]budget.VersionInfo{}, nil)
		mockRepo.On("FindByVersionForOwner", mock.Anything, testOwnerID, 1, mock.AnythingOfType("shared.Filter")).
			Return([]*budget.BudgetLine{}, int64(0), nil)

		req, _ := http.NewRequest(http.MethodPost, "/budget/versions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, "ERR_EMPTY_CURRENT_VERSION", errInfo["code"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 500 and compensate when the batch fails", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.POST("/budget/versions", handler.CreateSnapshot)

		lines := []*budget.BudgetLine{createTestBudgetLine(testOwnerID, "521211", 1)}

		mockRepo.On("ListVersionsForOwner", mock.Anything, testOwnerID).
			Return([]budget.VersionInfo{{Version: 1, LineCount: 1}}, nil)
		mockRepo.On("FindByVersionForOwner", mock.Anything, testOwnerID, 1, mock.AnythingOfType("shared.Filter")).
			Return(lines, int64(1), nil)
		mockRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*budget.BudgetLine")).
			Return(assert.AnError)
		mockRepo.On("DeleteByVersionForOwner", mock.Anything, testOwnerID, 2).
			Return(int64(0), nil)

		req, _ := http.NewRequest(http.MethodPost, "/budget/versions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, "ERR_INTERNAL", errInfo["code"], "rolled-back batch surfaces the plain storage failure")

		mockRepo.AssertExpectations(t)
	})

	t.Run("should report a partial batch when compensation fails", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.POST("/budget/versions", handler.CreateSnapshot)

		lines := []*budget.BudgetLine{createTestBudgetLine(testOwnerID, "521211", 1)}

		mockRepo.On("ListVersionsForOwner", mock.Anything, testOwnerID).
			Return([]budget.VersionInfo{{Version: 1, LineCount: 1}}, nil)
		mockRepo.On("FindByVersionForOwner", mock.Anything, testOwnerID, 1, mock.AnythingOfType("shared.Filter")).
			Return(lines, int64(1), nil)
		mockRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*budget.BudgetLine")).
			Return(assert.AnError)
		mockRepo.On("DeleteByVersionForOwner", mock.Anything, testOwnerID, 2).
			Return(int64(0), assert.AnError)

		req, _ := http.NewRequest(http.MethodPost, "/budget/versions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, "ERR_PARTIAL_BATCH_FAILURE", errInfo["code"])

		mockRepo.AssertExpectations(t)
	})
}

func TestBudgetHandler_ListVersionLines(t *testing.T) {
	t.Run("should list lines of the version in the path", func(t *testing.T) {
		router, mockRepo, handler := setupBudgetTestRouter()
		router.GET("/budget/versions/:version/lines", handler.ListVersionLines)

		lines := []*budget.BudgetLine{createTestBudgetLine(testOwnerID, "521211", 2)}

		mockRepo.On("FindByVersionForOwner", mock.Anything, testOwnerID, 2, mock.AnythingOfType("shared.Filter")).
			Return(lines, int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/budget/versions/2/lines", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 400 for a non-numeric version", func(t *testing.T) {
		router, _, handler := setupBudgetTestRouter()
		router.GET("/budget/versions/:version/lines", handler.ListVersionLines)

		req, _ := http.NewRequest(http.MethodGet, "/budget/versions/latest/lines", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
