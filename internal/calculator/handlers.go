package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the keypad API on top of a session Store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Request scaffolding
// ---------------------------------------------------------------------------

// operation carries the per-request span, logger and timing shared by every
// calculator endpoint.
type operation struct {
	name      string
	w         http.ResponseWriter
	r         *http.Request
	ctx       context.Context
	span      trace.Span
	logger    *zap.Logger
	requestID string
	start     time.Time
}

func begin(w http.ResponseWriter, r *http.Request, name string) *operation {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", name),
		trace.WithAttributes(
			attribute.String("calculator.operation", name),
			attribute.String("request.id", requestID),
		),
	)

	return &operation{
		name:      name,
		w:         w,
		r:         r,
		ctx:       ctx,
		span:      span,
		logger:    logger,
		requestID: requestID,
		start:     time.Now(),
	}
}

func (op *operation) end() {
	op.span.End()
}

func (op *operation) elapsedMs() float64 {
	return float64(time.Since(op.start).Microseconds()) / 1000.0
}

func (op *operation) fail(msg string, err error, status int) {
	observability.RecordError(op.ctx, op.span, op.logger, errorCounter, op.name, msg, err, status, op.w)
}

// session resolves the {id} URL parameter. It writes the error response and
// returns false when the session does not exist.
func (op *operation) session(store *Store) (*Session, bool) {
	id := chi.URLParam(op.r, "id")
	sess, err := store.Get(id)
	if err != nil {
		op.fail("session not found", fmt.Errorf("session %q: %w", id, err), http.StatusNotFound)
		return nil, false
	}
	op.span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	return sess, true
}

func (op *operation) decode(dst any) bool {
	if err := json.NewDecoder(op.r.Body).Decode(dst); err != nil {
		op.fail("invalid request body", err, http.StatusBadRequest)
		return false
	}
	return true
}

func (op *operation) recordKeys(n int) {
	keyCounter.Add(op.ctx, int64(n), metric.WithAttributes(attribute.String("operation", op.name)))
}

// recordOutcome feeds a CallOperator outcome into metrics, the span and the log.
func (op *operation) recordOutcome(sessionID string, out Outcome) {
	elapsed := op.elapsedMs()
	operator := out.Operator
	if operator == "" {
		operator = "none"
	}
	attrs := metric.WithAttributes(attribute.String("operator", operator))

	opsCounter.Add(op.ctx, 1, attrs)
	opsHistogram.Record(op.ctx, elapsed, attrs)

	if out.Normalized {
		normalizedCounter.Add(op.ctx, 1, metric.WithAttributes(
			attribute.String("operator", operator),
			attribute.String("reason", out.Reason),
		))
		op.span.AddEvent("computation.normalized", trace.WithAttributes(
			attribute.String("reason", out.Reason),
		))
		op.logger.Warn("calculator operation normalized to zero",
			zap.String("session_id", sessionID),
			zap.String("operator", out.Operator),
			zap.String("reason", out.Reason),
			zap.String("request_id", op.requestID),
		)
		return
	}

	resultGauge.Record(op.ctx, out.Result, attrs)

	op.span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", out.Result),
		attribute.Float64("duration_ms", elapsed),
	))
	op.span.SetAttributes(
		attribute.Float64("calculator.operand.a", out.Left),
		attribute.Float64("calculator.operand.b", out.Right),
		attribute.Float64("calculator.result", out.Result),
	)

	op.logger.Info("calculator operation completed",
		zap.String("session_id", sessionID),
		zap.String("operator", out.Operator),
		zap.Float64("a", out.Left),
		zap.Float64("b", out.Right),
		zap.Float64("result", out.Result),
		zap.String("request_id", op.requestID),
		zap.Float64("duration_ms", elapsed),
	)
}

func (op *operation) respond(status int, body any) {
	op.span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(op.w, status, body)
}

// ---------------------------------------------------------------------------
// Handlers — keypad and sessions
// ---------------------------------------------------------------------------

// Keypad handles GET /calculator/keypad
func (h *Handler) Keypad(w http.ResponseWriter, r *http.Request) {
	op := begin(w, r, "keypad")
	defer op.end()

	e := New()
	op.respond(http.StatusOK, KeypadResponse{
		Numbers:   e.Numbers(),
		Operators: e.Operators(),
		Submit:    SubmitKey,
	})
}

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	op := begin(w, r, "session.create")
	defer op.end()

	sess, err := h.store.Create()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrSessionLimit) {
			status = http.StatusServiceUnavailable
		}
		op.fail("cannot create session", err, status)
		return
	}

	op.span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	op.logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.Int("sessions", h.store.Len()),
		zap.String("request_id", op.requestID),
	)

	op.respond(http.StatusCreated, newSessionResponse(sess.ID, sess.Snapshot()))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	op := begin(w, r, "session.get")
	defer op.end()

	sess, ok := op.session(h.store)
	if !ok {
		return
	}

	op.respond(http.StatusOK, newSessionResponse(sess.ID, sess.Snapshot()))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	op := begin(w, r, "session.delete")
	defer op.end()

	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		op.fail("session not found", fmt.Errorf("session %q: %w", id, err), http.StatusNotFound)
		return
	}

	op.logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", op.requestID),
	)

	op.span.SetStatus(codes.Ok, "")
	w.WriteHeader(http.StatusNoContent)
}

// UpdateDisplay handles POST /calculator/sessions/{id}/display
func (h *Handler) UpdateDisplay(w http.ResponseWriter, r *http.Request) {
	op := begin(w, r, "display")
	defer op.end()

	sess, ok := op.session(h.store)
	if !ok {
		return
	}

	var req DisplayRequest
	if !op.decode(&req) {
		return
	}
	op.span.SetAttributes(attribute.String("calculator.input", req.Input))

	var st State
	sess.Do(func(k *Keypad) {
		k.Engine().UpdateDisplay(req.Input)
		st = k.Engine().State()
	})
	op.recordKeys(1)

	op.respond(http.StatusOK, newSessionResponse(sess.ID, st))
}

// SetOperator handles POST /calculator/sessions/{id}/operator
func (h *Handler) SetOperator(w http.ResponseWriter, r *http.Request) {
	op := begin(w, r, "operator")
	defer op.end()

	sess, ok := op.session(h.store)
	if !ok {
		return
	}

	var req OperatorRequest
	if !op.decode(&req) {
		return
	}
	op.span.SetAttributes(attribute.String("calculator.operator", req.Operator))

	var st State
	sess.Do(func(k *Keypad) {
		k.Engine().SetOperator(req.Operator)
		st = k.Engine().State()
	})
	op.recordKeys(1)

	op.respond(http.StatusOK, newSessionResponse(sess.ID, st))
}

// Equals handles POST /calculator/sessions/{id}/equals
func (h *Handler) Equals(w http.ResponseWriter, r *http.Request) {
	op := begin(w, r, "equals")
	defer op.end()

	sess, ok := op.session(h.store)
	if !ok {
		return
	}

	var (
		out Outcome
		st  State
	)
	sess.Do(func(k *Keypad) {
		out = k.Engine().CallOperator()
		st = k.Engine().State()
	})
	op.recordKeys(1)
	op.recordOutcome(sess.ID, out)

	op.respond(http.StatusOK, EqualsResponse{
		SessionResponse: newSessionResponse(sess.ID, st),
		Normalized:      out.Normalized,
		Reason:          out.Reason,
	})
}

// PressKeys handles POST /calculator/sessions/{id}/keys — presses a batch of
// keypad buttons in order. Keys before an unknown label stay applied.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	op := begin(w, r, "keys")
	defer op.end()

	sess, ok := op.session(h.store)
	if !ok {
		return
	}

	var req KeysRequest
	if !op.decode(&req) {
		return
	}
	op.span.SetAttributes(attribute.Int("calculator.keys_count", len(req.Keys)))

	var (
		st       State
		outcomes []Outcome
		err      error
	)
	sess.Do(func(k *Keypad) {
		st, outcomes, err = k.PressAll(req.Keys)
	})

	for _, out := range outcomes {
		op.recordOutcome(sess.ID, out)
	}

	if err != nil {
		op.fail("unknown key", err, http.StatusBadRequest)
		return
	}
	op.recordKeys(len(req.Keys))

	op.respond(http.StatusOK, newSessionResponse(sess.ID, st))
}
