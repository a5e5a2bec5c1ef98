package calculator

import "scicalc/internal/engine"

// EvaluateRequest is the JSON body for POST /calculator/evaluate. B is only
// read for binary operations.
type EvaluateRequest struct {
	Operation string   `json:"operation"`
	A         *float64 `json:"a"`
	B         *float64 `json:"b,omitempty"`
	AngleMode string   `json:"angle_mode,omitempty"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Operation  engine.Operator `json:"operation"`
	A          float64         `json:"a"`
	B          *float64        `json:"b,omitempty"`
	Result     string          `json:"result"`
	Display    string          `json:"display"`
	Expression string          `json:"expression"`
}

// SequenceRequest is the JSON body for POST /calculator/sequence.
type SequenceRequest struct {
	Keys      []string `json:"keys"`
	AngleMode string   `json:"angle_mode,omitempty"`
}

// SequenceStep records the displays after one key press.
type SequenceStep struct {
	Key     string         `json:"key"`
	Display engine.Display `json:"display"`
}

// SequenceResponse is the JSON response for POST /calculator/sequence.
type SequenceResponse struct {
	Steps     []SequenceStep   `json:"steps"`
	Display   engine.Display   `json:"display"`
	AngleMode engine.AngleMode `json:"angle_mode"`
}

// CreateSessionRequest is the optional JSON body for POST /calculator/sessions.
type CreateSessionRequest struct {
	AngleMode string `json:"angle_mode,omitempty"`
}

// PressRequest is the JSON body for POST /calculator/sessions/{id}/keys.
// Either Key or Keys must be set; Key is pressed first when both are.
type PressRequest struct {
	Key  string   `json:"key,omitempty"`
	Keys []string `json:"keys,omitempty"`
}

// SessionView is what the browser needs to redraw both screens.
type SessionView struct {
	SessionID string           `json:"session_id"`
	Display   engine.Display   `json:"display"`
	AngleMode engine.AngleMode `json:"angle_mode"`
	Pending   engine.Operator  `json:"pending,omitempty"`
}

func newSessionView(id string, st engine.State) (SessionView, error) {
	e, err := engine.Restore(st)
	if err != nil {
		return SessionView{}, err
	}

	return SessionView{
		SessionID: id,
		Display:   e.Display(),
		AngleMode: e.AngleMode(),
		Pending:   e.Pending(),
	}, nil
}
