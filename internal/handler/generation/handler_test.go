package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocard/benefits-api/internal/model"
	generationservice "github.com/mocard/benefits-api/internal/service/generation"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
)

type stubService struct {
	generateResult *model.GenerationResult
	generateErr    error
	progress       *model.GenerationProgress
	progressErr    error
	csv            []byte
	csvErr         error
}

var _ generationservice.GenerationService = (*stubService)(nil)

func (s *stubService) GenerateBatch(_ context.Context, _ *model.GenerationRequest) (*model.GenerationResult, error) {
	return s.generateResult, s.generateErr
}

func (s *stubService) TrackProgress(_ context.Context, _ string) (*model.GenerationProgress, error) {
	return s.progress, s.progressErr
}

func (s *stubService) ExportBatchCSV(_ context.Context, _ string) ([]byte, error) {
	return s.csv, s.csvErr
}

func (s *stubService) Options() *model.GenerationOptions {
	return &model.GenerationOptions{
		DefaultPrefixes: []string{"MOC", "CARD", "MCN"},
		QuickQuantities: []int{1, 10, 100, 1000},
		Preview:         "MOC-1773300000000-0001-ABC123",
	}
}

func setupRouter(svc generationservice.GenerationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestGenerateBatch_Created(t *testing.T) {
	svc := &stubService{
		generateResult: &model.GenerationResult{
			Success: true,
			Count:   10,
			Cards:   []*model.GeneratedCard{},
			BatchID: "BATCH_1",
			Prefix:  "MOC",
		},
	}
	r := setupRouter(svc)

	body := bytes.NewBufferString(`{"clinic_id":"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee","count":10}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/generate", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var result model.GenerationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "BATCH_1", result.BatchID)
}

func TestGenerateBatch_ValidationFailureIs400(t *testing.T) {
	svc := &stubService{
		generateResult: &model.GenerationResult{
			Success: false,
			Cards:   []*model.GeneratedCard{},
			Prefix:  "MOC",
			Errors:  []string{"count must be at least 1"},
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/generate",
		bytes.NewBufferString(`{"clinic_id":"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee","count":0}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result model.GenerationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors[0], "at least 1")
}

func TestGenerateBatch_DuplicateBatchIs409(t *testing.T) {
	svc := &stubService{
		generateResult: &model.GenerationResult{
			Success: false,
			Cards:   []*model.GeneratedCard{},
			BatchID: "BATCH_DUP",
			Prefix:  "MOC",
			Errors:  []string{"batch BATCH_DUP already exists"},
		},
		generateErr: apperrors.NewConflict("batch BATCH_DUP already exists", nil),
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/generate",
		bytes.NewBufferString(`{"clinic_id":"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee","count":1,"batch_id":"BATCH_DUP"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGenerateBatch_MalformedBodyIs400(t *testing.T) {
	r := setupRouter(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/generate",
		bytes.NewBufferString(`{"count":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackProgress_NotFound(t *testing.T) {
	svc := &stubService{progressErr: apperrors.NewNotFound("batch", nil)}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/batches/missing/progress", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "batch not found")
}

func TestTrackProgress_OK(t *testing.T) {
	svc := &stubService{
		progress: &model.GenerationProgress{
			BatchID:     "BATCH_1",
			Total:       500,
			Completed:   200,
			Status:      model.BatchStatusGenerating,
			CurrentStep: "Generating cards (200/500)",
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/batches/BATCH_1/progress", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
	assert.Contains(t, w.Body.String(), "Generating cards (200/500)")
}

func TestExportBatch(t *testing.T) {
	svc := &stubService{csv: []byte("Card ID,Control Number")}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/batches/BATCH_1/export", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cards_BATCH_1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Card ID,Control Number", w.Body.String())
}

func TestExportBatch_StoreFailureIs502(t *testing.T) {
	svc := &stubService{csvErr: apperrors.NewExport(nil)}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/batches/BATCH_1/export", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGenerationOptions(t *testing.T) {
	r := setupRouter(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/generate/options", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"MOC"`)
	assert.Contains(t, w.Body.String(), "1000")
}
