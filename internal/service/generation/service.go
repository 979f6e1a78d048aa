package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mocard/benefits-api/internal/config"
	"github.com/mocard/benefits-api/internal/model"
	"github.com/mocard/benefits-api/internal/repository"
	apperrors "github.com/mocard/benefits-api/pkg/errors"
	"github.com/mocard/benefits-api/pkg/logger"
	"github.com/mocard/benefits-api/pkg/messaging"
	"github.com/mocard/benefits-api/pkg/metrics"
)

const (
	// ChunkSize is the number of cards persisted per bulk-insert call; the
	// batch progress counter advances in multiples of it.
	ChunkSize = 100

	// MaxBatchSize caps a single generation request. Requests above it are
	// rejected, never truncated.
	MaxBatchSize = 10000

	// MaxActiveCardsPerClinic caps the clinic-wide active card population.
	MaxActiveCardsPerClinic = 10000

	// CardValidityYears is added to the issue date to get the expiry date,
	// identical for every card in a batch.
	CardValidityYears = 2

	// DefaultPerksTotal is the perk allotment granted per card.
	DefaultPerksTotal = 10

	// ProgressChannel carries batch checkpoint and terminal events.
	ProgressChannel = "cards.batches"
)

// DefaultPrefixes are the control-number prefixes offered by the generation
// form; the first one doubles as the system default.
var DefaultPrefixes = []string{"MOC", "CARD", "MCN"}

// QuickQuantities are the one-click batch sizes offered by the form.
var QuickQuantities = []int{1, 10, 100, 1000}

type GenerationService interface {
	GenerateBatch(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error)
	TrackProgress(ctx context.Context, batchID string) (*model.GenerationProgress, error)
	ExportBatchCSV(ctx context.Context, batchID string) ([]byte, error)
	Options() *model.GenerationOptions
}

type Service struct {
	batches repository.BatchRepository
	cards   repository.CardRepository
	broker  messaging.Broker
	metrics *metrics.Metrics
	logger  *logger.Logger
	cfg     config.GenerationConfig
}

// NewService wires the engine. broker may be nil; progress events are then
// skipped.
func NewService(
	batches repository.BatchRepository,
	cards repository.CardRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
	l *logger.Logger,
	cfg config.GenerationConfig,
) *Service {
	return &Service{
		batches: batches,
		cards:   cards,
		broker:  broker,
		metrics: m,
		logger:  l,
		cfg:     cfg,
	}
}

// GenerateBatch runs one generation request to a terminal state. Validation
// failures come back as a failure result with a nil error; persistence
// failures come back as a failure result plus a typed error so callers can
// map them to a transport status. Once the batch record exists, the call
// always leaves it in completed or failed, never generating.
func (s *Service) GenerateBatch(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	started := time.Now()

	prefix := req.Prefix
	if prefix == "" {
		prefix = s.defaultPrefix()
	}

	if v := s.Validate(req); !v.IsValid {
		return failureResult("", prefix, v.Errors), nil
	}

	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		return failureResult("", prefix, []string{"clinic ID must be a valid UUID"}), nil
	}

	active, err := s.cards.CountActiveByClinic(ctx, clinicID)
	if err != nil {
		return failureResult("", prefix, []string{err.Error()}), apperrors.NewInternal(err)
	}
	if active+req.Count > MaxActiveCardsPerClinic {
		msg := fmt.Sprintf("clinic has %d active cards, adding %d would exceed the limit of %d",
			active, req.Count, MaxActiveCardsPerClinic)
		return failureResult("", prefix, []string{msg}), nil
	}

	now := time.Now()
	batchID := req.BatchID
	if batchID == "" {
		batchID = fmt.Sprintf("BATCH_%d", now.UnixMilli())
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "admin"
	}

	batch := &model.CardBatch{
		ID:             batchID,
		ClinicID:       clinicID,
		BatchName:      fmt.Sprintf("BATCH_%s_%d", now.Format("2006-01-02"), now.UnixMilli()),
		TotalCards:     req.Count,
		GeneratedCards: 0,
		Status:         model.BatchStatusGenerating,
		TemplateData:   req.TemplateData,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}
	if batch.TemplateData == nil {
		batch.TemplateData = model.JSONMap{}
	}
	templateJSON, err := json.Marshal(batch.TemplateData)
	if err != nil {
		return failureResult("", prefix, []string{err.Error()}), apperrors.NewInternal(err)
	}
	batch.TemplateDataJSON = string(templateJSON)

	if err := s.batches.Create(ctx, batch); err != nil {
		if apperrors.IsConflict(err) {
			return failureResult(batchID, prefix, []string{err.Error()}), err
		}
		return failureResult(batchID, prefix, []string{err.Error()}), apperrors.NewInternal(err)
	}

	expiry := now.AddDate(CardValidityYears, 0, 0)

	cards := make([]*model.GeneratedCard, 0, req.Count)
	chunk := make([]*model.GeneratedCard, 0, ChunkSize)
	chunkBase := 0
	written := 0

	for i := 0; i < req.Count; i++ {
		card, err := s.buildCard(req, clinicID, prefix, i, batchID, now, expiry)
		if err != nil {
			return s.failBatch(ctx, batch, written, prefix, err), apperrors.NewInternal(err)
		}
		cards = append(cards, card)
		chunk = append(chunk, card)

		if len(chunk) == ChunkSize || i == req.Count-1 {
			if err := s.persistChunk(ctx, chunk, prefix, chunkBase, now); err != nil {
				return s.failBatch(ctx, batch, written, prefix, err), apperrors.NewInternal(err)
			}
			written += len(chunk)
			if err := s.checkpoint(ctx, batch, written); err != nil {
				return s.failBatch(ctx, batch, written, prefix, err), apperrors.NewInternal(err)
			}
			chunkBase = i + 1
			chunk = chunk[:0]
		}
	}

	completedAt := time.Now()
	update := &model.BatchUpdate{
		GeneratedCards: written,
		Status:         model.BatchStatusCompleted,
		CompletedAt:    &completedAt,
	}
	if err := s.batches.Update(ctx, batchID, update); err != nil {
		return s.failBatch(ctx, batch, written, prefix, err), apperrors.NewInternal(err)
	}
	s.publishEvent(ctx, batch, written, model.BatchStatusCompleted)

	s.metrics.CardsGenerated.Add(float64(written))
	s.metrics.BatchesTotal.WithLabelValues(string(model.BatchStatusCompleted)).Inc()
	s.metrics.GenerationDuration.Observe(time.Since(started).Seconds())

	s.logger.ZL.Info().
		Str("batch_id", batchID).
		Str("clinic_id", req.ClinicID).
		Int("count", written).
		Dur("took", time.Since(started)).
		Msg("batch generation completed")

	return &model.GenerationResult{
		Success: true,
		Count:   len(cards),
		Cards:   cards,
		BatchID: batchID,
		Prefix:  prefix,
	}, nil
}

// TrackProgress is the stateless read side polled by callers until a terminal
// status is observed.
func (s *Service) TrackProgress(ctx context.Context, batchID string) (*model.GenerationProgress, error) {
	batch, err := s.batches.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}

	progress := &model.GenerationProgress{
		BatchID:   batchID,
		Total:     batch.TotalCards,
		Completed: batch.GeneratedCards,
		Status:    batch.Status,
	}
	if batch.Status == model.BatchStatusGenerating {
		progress.CurrentStep = fmt.Sprintf("Generating cards (%d/%d)", batch.GeneratedCards, batch.TotalCards)
	}
	return progress, nil
}

// ExportBatchCSV renders every card referencing the batch into a flat CSV
// document. An empty batch yields a header-only document.
func (s *Service) ExportBatchCSV(ctx context.Context, batchID string) ([]byte, error) {
	cards, err := s.cards.ListByBatch(ctx, batchID)
	if err != nil {
		s.metrics.ExportsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.NewExport(err)
	}

	s.metrics.ExportsTotal.WithLabelValues("success").Inc()
	return renderCSV(cards), nil
}

// Options feeds the generation form.
func (s *Service) Options() *model.GenerationOptions {
	prefixes := make([]string, len(DefaultPrefixes))
	copy(prefixes, DefaultPrefixes)
	quantities := make([]int, len(QuickQuantities))
	copy(quantities, QuickQuantities)

	return &model.GenerationOptions{
		DefaultPrefixes: prefixes,
		QuickQuantities: quantities,
		Preview:         ControlNumberPreview(s.defaultPrefix()),
	}
}

func (s *Service) defaultPrefix() string {
	if s.cfg.DefaultPrefix != "" {
		return s.cfg.DefaultPrefix
	}
	return DefaultPrefixes[0]
}

func (s *Service) buildCard(
	req *model.GenerationRequest,
	clinicID uuid.UUID,
	prefix string,
	sequenceIndex int,
	batchID string,
	issuedAt time.Time,
	expiry time.Time,
) (*model.GeneratedCard, error) {
	card := &model.GeneratedCard{
		ID:               uuid.New(),
		FullName:         s.demographicField(req, "full_name", syntheticName),
		BirthDate:        s.demographicField(req, "birth_date", syntheticBirthDate),
		Address:          s.demographicField(req, "address", func() string { return syntheticAddress }),
		ContactNumber:    s.demographicField(req, "contact_number", syntheticPhoneNumber),
		EmergencyContact: s.demographicField(req, "emergency_contact", syntheticPhoneNumber),
		ClinicID:         clinicID,
		CategoryID:       req.CategoryID,
		Status:           model.CardStatusActive,
		PerksTotal:       DefaultPerksTotal,
		PerksUsed:        0,
		IssueDate:        issuedAt,
		ExpiryDate:       expiry,
		TenantID:         clinicID,
		CreatedAt:        issuedAt,
		UpdatedAt:        issuedAt,
	}

	if err := stampControlNumber(card, ControlNumber(prefix, sequenceIndex), issuedAt); err != nil {
		return nil, err
	}

	metadata := model.JSONMap{
		"batch_id":             batchID,
		"generation_timestamp": issuedAt.UnixMilli(),
	}
	for k, v := range req.TemplateData {
		metadata[k] = v
	}
	card.Metadata = metadata

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card metadata: %w", err)
	}
	card.MetadataJSON = string(metadataJSON)

	return card, nil
}

// demographicField prefers caller-supplied template data and falls back to
// the synthetic pools only when that path is enabled.
func (s *Service) demographicField(req *model.GenerationRequest, key string, synth func() string) string {
	if v, ok := req.TemplateData[key]; ok {
		if str, ok := v.(string); ok && str != "" {
			return str
		}
	}
	if s.cfg.SyntheticData {
		return synth()
	}
	return ""
}

// stampControlNumber sets the control number and the machine-readable payload
// that embeds it. Called again when a chunk is regenerated after a collision.
func stampControlNumber(card *model.GeneratedCard, controlNumber string, issuedAt time.Time) error {
	card.ControlNumber = controlNumber

	qr, err := json.Marshal(model.QRPayload{
		ControlNumber: controlNumber,
		Issued:        issuedAt,
		ClinicID:      card.ClinicID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal QR payload: %w", err)
	}
	card.QRCodeData = string(qr)
	return nil
}

// persistChunk bulk-inserts one chunk. A uniqueness violation is recoverable:
// the chunk's control numbers are regenerated once (same sequence positions,
// fresh random suffixes) and the insert retried. A second failure aborts the
// batch.
func (s *Service) persistChunk(ctx context.Context, chunk []*model.GeneratedCard, prefix string, baseIndex int, issuedAt time.Time) error {
	started := time.Now()
	err := s.cards.BulkInsert(ctx, chunk)
	if err == nil {
		s.metrics.ChunksPersisted.Inc()
		s.metrics.ChunkInsertLatency.Observe(time.Since(started).Seconds())
		return nil
	}
	if !apperrors.IsConflict(err) {
		return err
	}

	s.metrics.ChunkRetries.Inc()
	s.logger.ZL.Warn().
		Int("chunk_size", len(chunk)).
		Int("base_index", baseIndex).
		Msg("control number collision, regenerating chunk")

	for i, card := range chunk {
		if err := stampControlNumber(card, ControlNumber(prefix, baseIndex+i), issuedAt); err != nil {
			return err
		}
	}

	if err := s.cards.BulkInsert(ctx, chunk); err != nil {
		return fmt.Errorf("chunk insert failed after control number regeneration: %w", err)
	}
	s.metrics.ChunksPersisted.Inc()
	s.metrics.ChunkInsertLatency.Observe(time.Since(started).Seconds())
	return nil
}

// checkpoint advances the durable progress counter after a chunk commits;
// this is the boundary pollers observe.
func (s *Service) checkpoint(ctx context.Context, batch *model.CardBatch, written int) error {
	update := &model.BatchUpdate{
		GeneratedCards: written,
		Status:         model.BatchStatusGenerating,
	}
	if err := s.batches.Update(ctx, batch.ID, update); err != nil {
		return fmt.Errorf("failed to checkpoint batch progress: %w", err)
	}
	s.publishEvent(ctx, batch, written, model.BatchStatusGenerating)
	return nil
}

// failBatch marks the batch failed best-effort and builds the failure result.
// Chunks committed before the failure stay persisted; the cards remain
// queryable under the failed batch id.
func (s *Service) failBatch(ctx context.Context, batch *model.CardBatch, written int, prefix string, cause error) *model.GenerationResult {
	failedAt := time.Now()
	update := &model.BatchUpdate{
		GeneratedCards: written,
		Status:         model.BatchStatusFailed,
		CompletedAt:    &failedAt,
	}
	if err := s.batches.Update(ctx, batch.ID, update); err != nil {
		s.logger.ZL.Error().Err(err).Str("batch_id", batch.ID).Msg("failed to mark batch as failed")
	}
	s.publishEvent(ctx, batch, written, model.BatchStatusFailed)
	s.metrics.BatchesTotal.WithLabelValues(string(model.BatchStatusFailed)).Inc()

	s.logger.ZL.Error().Err(cause).
		Str("batch_id", batch.ID).
		Int("written", written).
		Msg("batch generation failed")

	return failureResult(batch.ID, prefix, []string{cause.Error()})
}

func (s *Service) publishEvent(ctx context.Context, batch *model.CardBatch, completed int, status model.BatchStatus) {
	if s.broker == nil {
		return
	}
	event := &model.BatchEvent{
		BatchID:   batch.ID,
		ClinicID:  batch.ClinicID.String(),
		Total:     batch.TotalCards,
		Completed: completed,
		Status:    status,
		Timestamp: time.Now(),
	}
	if err := s.broker.Publish(ctx, ProgressChannel, event); err != nil {
		s.logger.ZL.Warn().Err(err).Str("batch_id", batch.ID).Msg("failed to publish batch event")
	}
}

func failureResult(batchID, prefix string, errs []string) *model.GenerationResult {
	return &model.GenerationResult{
		Success: false,
		Count:   0,
		Cards:   []*model.GeneratedCard{},
		BatchID: batchID,
		Prefix:  prefix,
		Errors:  errs,
	}
}
