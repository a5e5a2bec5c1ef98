package calculator

import (
	"errors"
	"net/http"

	"scicalc/internal/engine"
	"scicalc/internal/handlers"
	"scicalc/internal/observability"
	"scicalc/internal/session"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Sessions serves the per-browser calculator sessions backed by a store.
type Sessions struct {
	store       session.Store
	defaultMode engine.AngleMode
}

// NewSessions returns session handlers. New sessions start in defaultMode
// unless the request names an angle mode.
func NewSessions(store session.Store, defaultMode engine.AngleMode) *Sessions {
	return &Sessions{store: store, defaultMode: defaultMode}
}

// Create handles POST /calculator/sessions.
func (s *Sessions) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create")
	defer span.End()

	var req CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		observability.RecordError(ctx, span, logger, errorCounter, "session.create", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	mode := s.defaultMode
	if req.AngleMode != "" {
		parsed, err := engine.ParseAngleMode(req.AngleMode)
		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "session.create", "invalid angle mode", err, http.StatusBadRequest, w)
			return
		}
		mode = parsed
	}

	calc := engine.New()
	calc.SetAngleMode(mode)

	id, err := s.store.Create(ctx, calc.Snapshot())
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.create", "could not create session", err, http.StatusInternalServerError, w)
		return
	}

	span.SetAttributes(attribute.String("session.id", id))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.Stringer("angle_mode", mode),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	s.writeView(w, r, span, http.StatusCreated, id, calc.Snapshot())
}

// Get handles GET /calculator/sessions/{id}.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	state, err := s.store.Get(ctx, id)
	if err != nil {
		status, msg := storeErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "session.get", msg, err, status, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	s.writeView(w, r, span, http.StatusOK, id, state)
}

// Press handles POST /calculator/sessions/{id}/keys. All keys of one
// request are applied atomically: an unknown key leaves the session as it
// was.
func (s *Sessions) Press(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.press",
		trace.WithAttributes(
			attribute.String("session.id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req PressRequest
	if err := decodeJSON(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.press", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	keys := req.Keys
	if req.Key != "" {
		keys = append([]string{req.Key}, keys...)
	}
	if len(keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "session.press", "no keys provided", errors.New("key and keys are empty"), http.StatusBadRequest, w)
		return
	}
	if len(keys) > maxSequenceKeys {
		observability.RecordError(ctx, span, logger, errorCounter, "session.press", "too many keys", errors.New("key limit exceeded"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.StringSlice("calculator.keys", keys))

	state, err := s.store.Update(ctx, id, func(calc *engine.Engine) error {
		return calc.PressAll(keys...)
	})
	if err != nil {
		status, msg := storeErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "session.press", msg, err, status, w)
		return
	}

	keyCounter.Add(ctx, int64(len(keys)), metric.WithAttributes(attribute.String("source", "session")))
	if ops := countOperationKeys(keys); ops > 0 {
		attrs := metric.WithAttributes(attribute.String("operation", "session"))
		opsCounter.Add(ctx, int64(ops), attrs)
		recordResult(r, state.Current, attrs)
	}

	span.SetAttributes(attribute.String("calculator.current", state.Current))
	span.SetStatus(codes.Ok, "")

	logger.Debug("keys pressed",
		zap.String("session_id", id),
		zap.Strings("keys", keys),
		zap.String("current", state.Current),
		zap.String("request_id", requestID),
	)

	s.writeView(w, r, span, http.StatusOK, id, state)
}

// Delete handles DELETE /calculator/sessions/{id}. Deleting an unknown or
// expired session also succeeds.
func (s *Sessions) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.delete", "could not delete session", err, http.StatusInternalServerError, w)
		return
	}

	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Sessions) writeView(w http.ResponseWriter, r *http.Request, span trace.Span, status int, id string, state engine.State) {
	view, err := newSessionView(id, state)
	if err != nil {
		observability.RecordError(r.Context(), span, observability.LoggerWithTrace(r.Context()), errorCounter, "session.view", "corrupt session state", err, http.StatusInternalServerError, w)
		return
	}
	handlers.WriteJSON(w, status, view)
}

// countOperationKeys counts "=" and operator keys.
func countOperationKeys(keys []string) int {
	n := 0
	for _, key := range keys {
		if _, err := engine.ParseOperator(key); err == nil || key == engine.KeyEquals {
			n++
		}
	}
	return n
}

// storeErrorStatus maps store and engine errors onto HTTP responses.
func storeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, engine.ErrUnknownKey):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, session.ErrConflict):
		return http.StatusConflict, "session is busy, retry"
	case errors.Is(err, engine.ErrInvalidState):
		return http.StatusInternalServerError, "corrupt session state"
	default:
		return http.StatusInternalServerError, "session store unavailable"
	}
}
