package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/matzehuels/impose/pkg/buildinfo"
	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/frame"
	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/guides"
	"github.com/matzehuels/impose/pkg/margin"
	"github.com/matzehuels/impose/pkg/pipeline"
	"github.com/matzehuels/impose/pkg/schema"
	"github.com/matzehuels/impose/pkg/values"
)

// =============================================================================
// Envelope
// =============================================================================

// Response is the JSON envelope of every reply.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Status: "error", Error: msg, Code: code})
}

// fail maps an error to a status by its code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "err", err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeError(w, status, string(code), errors.UserMessage(err))
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSchema, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidValue, errors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodePresetNotFound, errors.ErrCodeSectionNotFound,
		errors.ErrCodeFieldNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeLayoutDoesNotFit, errors.ErrCodeFrameInfeasible:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v, rejecting unknown fields. A body over the
// size limit is invalid input, not a format error.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body")
	}
	return nil
}

// =============================================================================
// Health and Presets
// =============================================================================

// Health is the body of the health check.
type Health struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Status: "ok", Build: buildinfo.Get()})
}

// PresetSummary is one entry of the preset list.
type PresetSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	list := lo.Map(schema.Builtin(), func(p *schema.Schema, _ int) PresetSummary {
		return PresetSummary{ID: p.ID, Name: p.Name, Version: p.Version, Description: p.Description}
	})
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := schema.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schema.Annotate(p))
}

// =============================================================================
// Rules and Margins
// =============================================================================

// RulesRequest selects a schema (inline or by preset id) and raw values.
type RulesRequest struct {
	SchemaID string         `json:"schemaId,omitempty"`
	Schema   *schema.Schema `json:"schema,omitempty"`
	Values   values.Values  `json:"values"`
}

func (req RulesRequest) resolveSchema() (*schema.Schema, error) {
	if req.Schema != nil {
		return req.Schema, nil
	}
	if req.SchemaID != "" {
		return schema.Lookup(req.SchemaID)
	}
	return nil, nil
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	var req RulesRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sc, err := req.resolveSchema()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rules, err := s.runner.CompileRules(r.Context(), sc, req.Values)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": nonNil(rules)})
}

// MarginsRequest resolves either explicit rules or the rules compiled from
// a schema and raw values.
type MarginsRequest struct {
	RulesRequest
	Rules   []margin.Rule `json:"rules,omitempty"`
	Explain bool          `json:"explain,omitempty"`
}

// MarginsResponse is the reply of /v1/margins.
type MarginsResponse struct {
	Margins margin.Margins      `json:"margins"`
	Rules   []margin.Rule       `json:"rules"`
	Explain []margin.EdgeReport `json:"explain,omitempty"`
}

func (s *Server) handleMargins(w http.ResponseWriter, r *http.Request) {
	var req MarginsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rules := req.Rules
	if len(rules) == 0 {
		sc, err := req.resolveSchema()
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if rules, err = s.runner.CompileRules(r.Context(), sc, req.Values); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	resp := MarginsResponse{Margins: margin.Resolve(rules), Rules: nonNil(rules)}
	if req.Explain {
		resp.Explain = margin.Explain(rules)
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Frame and Layout
// =============================================================================

// FrameResponse is the reply of /v1/frame.
type FrameResponse struct {
	Frame   frame.Frame  `json:"frame"`
	Content geom.Bounds  `json:"content"`
	Cached  bool         `json:"cached"`
	Guides  guides.Yield `json:"guides"`
	Fit     *frame.Fit   `json:"fit,omitempty"`
	// Offset moves content centered in the frame onto the printable
	// area's center.
	Offset *geom.Point `json:"offset,omitempty"`
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	req.Logger = s.logger
	f, content, hit, err := s.runner.FrameWithCacheInfo(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := FrameResponse{Frame: f, Content: content, Cached: hit, Guides: guides.ForYield(f)}
	if content.Width > 0 && content.Height > 0 {
		if fit, err := f.Fit(content.Size()); err == nil {
			resp.Fit = &fit
			off := f.CenterOffset(geom.Bounds{
				Left:   -content.Width / 2,
				Top:    content.Height / 2,
				Width:  content.Width,
				Height: content.Height,
			})
			resp.Offset = &off
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	req.Logger = s.logger
	res, err := s.runner.Execute(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
