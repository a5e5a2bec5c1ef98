package calculator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"scicalc/internal/engine"
	"scicalc/internal/handlers"
	"scicalc/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const (
	maxBodyBytes    = 64 << 10
	maxSequenceKeys = 1024
)

var errEmptyBody = errors.New("empty request body")

// ---------------------------------------------------------------------------
// Handler: one-shot evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It applies a single binary or
// unary operation to explicit operands without touching any session.
func Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	op, err := engine.ParseOperator(req.Operation)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "unknown operation", err, http.StatusBadRequest, w)
		return
	}
	opName := op.String()

	mode, err := engine.ParseAngleMode(req.AngleMode)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid angle mode", err, http.StatusBadRequest, w)
		return
	}

	// Validate inputs
	if req.A == nil || (op.IsBinary() && req.B == nil) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "missing operand", fmt.Errorf("operation %s needs a and b", op), http.StatusBadRequest, w)
		return
	}
	a := *req.A
	var b float64
	if op.IsBinary() {
		b = *req.B
	}
	if !finite(a) || !finite(b) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", fmt.Errorf("a=%g b=%g", a, b), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operation", opName),
		attribute.Float64("calculator.operand.a", a),
	)
	if op.IsBinary() {
		span.SetAttributes(attribute.Float64("calculator.operand.b", b))
	}

	// Binary operators read (a, b); unary ones read a as the current operand.
	prev, cur := a, b
	if op.IsUnary() {
		prev, cur = 0, a
	}

	start := time.Now()
	result, err := engine.Evaluate(op, prev, cur, mode)
	elapsed := observability.ElapsedMillis(start)

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusUnprocessableEntity, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	recordResult(r, result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64("a", a),
		zap.Float64("b", b),
		zap.String("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	resp := EvaluateResponse{
		Operation:  op,
		A:          a,
		Result:     result,
		Display:    engine.FormatOperand(result),
		Expression: expression(op, a, b),
	}
	if op.IsBinary() {
		resp.B = &b
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Handler: key sequences, one child span per key
// ---------------------------------------------------------------------------

// Sequence handles POST /calculator/sequence. It presses each key on a fresh
// engine, creating a child span per key, and returns the displays after
// every step.
func Sequence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.sequence",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req SequenceRequest
	if err := decodeJSON(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "sequence", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "sequence", "no keys provided", errors.New("keys array is empty"), http.StatusBadRequest, w)
		return
	}
	if len(req.Keys) > maxSequenceKeys {
		observability.RecordError(ctx, span, logger, errorCounter, "sequence", "too many keys", fmt.Errorf("%d keys, limit %d", len(req.Keys), maxSequenceKeys), http.StatusBadRequest, w)
		return
	}

	mode, err := engine.ParseAngleMode(req.AngleMode)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "sequence", "invalid angle mode", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("sequence.keys_count", len(req.Keys)))

	calc := engine.New()
	calc.SetAngleMode(mode)
	steps := make([]SequenceStep, 0, len(req.Keys))

	for i, key := range req.Keys {
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.sequence.key.%d", i),
			trace.WithAttributes(
				attribute.Int("sequence.key.index", i),
				attribute.String("sequence.key", key),
				attribute.String("sequence.key.input", calc.Current()),
			),
		)

		if err := calc.Press(key); err != nil {
			keySpan.RecordError(err)
			keySpan.SetStatus(codes.Error, err.Error())
			keySpan.End()

			observability.RecordError(ctx, span, logger, errorCounter, "sequence", fmt.Sprintf("unknown key at step %d", i), err, http.StatusBadRequest, w)
			return
		}

		display := calc.Display()
		keySpan.SetAttributes(attribute.String("sequence.key.display", display.Primary))
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()

		steps = append(steps, SequenceStep{Key: key, Display: display})
	}

	keyCounter.Add(ctx, int64(len(req.Keys)), metric.WithAttributes(attribute.String("source", "sequence")))
	recordResult(r, calc.Current(), metric.WithAttributes(attribute.String("operation", "sequence")))

	final := calc.Display()
	span.AddEvent("sequence.complete", trace.WithAttributes(
		attribute.String("display", final.Primary),
		attribute.Int("total_keys", len(req.Keys)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("key sequence completed",
		zap.Int("keys", len(req.Keys)),
		zap.String("display", final.Primary),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, SequenceResponse{
		Steps:     steps,
		Display:   final,
		AngleMode: calc.AngleMode(),
	})
}

// decodeJSON reads a size-limited JSON body into dst. An empty body yields
// errEmptyBody.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// recordResult reports numeric results on the last-result gauge.
func recordResult(r *http.Request, operand string, attrs metric.MeasurementOption) {
	v, err := strconv.ParseFloat(operand, 64)
	if err != nil {
		return
	}
	resultGauge.Record(r.Context(), v, attrs)
}

func expression(op engine.Operator, a, b float64) string {
	if op.IsUnary() {
		return engine.FormatSecondary(op, "", formatFloat(a))
	}
	return engine.FormatOperand(formatFloat(a)) + " " + op.String() + " " + engine.FormatOperand(formatFloat(b))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
