package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/layout"
)

// maxBodyBytes bounds request bodies; pointer events are tiny.
const maxBodyBytes = 1 << 16

type pointerRequest struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type toggleRequest struct {
	ID string `json:"id"`
}

type dragResponse struct {
	Queued bool `json:"queued"`
}

type stopResponse struct {
	SessionID string                `json:"session_id"`
	NodeID    string                `json:"node_id"`
	ParentID  string                `json:"parent_id,omitempty"`
	Scope     string                `json:"scope"`
	Positions map[string]grid.Point `json:"positions"`
	Order     []string              `json:"order"`
	Layout    layout.Layout         `json:"layout"`
}

type toggleResponse struct {
	ID       string        `json:"id"`
	Expanded bool          `json:"expanded"`
	Layout   layout.Layout `json:"layout"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	l := s.canvas.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	req, err := decodePointer(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	queued := s.canvas.OnDrag(req.ID, grid.Point{X: req.X, Y: req.Y})
	s.mu.Unlock()
	if !queued {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "node %q is not visible", req.ID))
		return
	}
	writeJSON(w, http.StatusAccepted, dragResponse{Queued: true})
}

func (s *Server) handleDragStop(w http.ResponseWriter, r *http.Request) {
	req, err := decodePointer(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	res, ok := s.canvas.OnDragStop(req.ID, grid.Point{X: req.X, Y: req.Y})
	l := s.canvas.Snapshot()
	s.mu.Unlock()
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "node %q is not visible", req.ID))
		return
	}
	writeJSON(w, http.StatusOK, stopResponse{
		SessionID: res.SessionID,
		NodeID:    res.NodeID,
		ParentID:  res.ParentID,
		Scope:     res.Scope.String(),
		Positions: res.Positions,
		Order:     res.Order,
		Layout:    l,
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateNodeID(req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	expanded, ok := s.canvas.OnToggle(req.ID)
	l := s.canvas.Snapshot()
	s.mu.Unlock()
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "node %q not found", req.ID))
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{ID: req.ID, Expanded: expanded, Layout: l})
}

func decodePointer(w http.ResponseWriter, r *http.Request) (pointerRequest, error) {
	var req pointerRequest
	if err := decode(w, r, &req); err != nil {
		return req, err
	}
	if err := errors.ValidateNodeID(req.ID); err != nil {
		return req, err
	}
	if err := errors.ValidatePoint(req.X, req.Y); err != nil {
		return req, err
	}
	return req, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}
