package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bibnet/pkg/buildinfo"
	errs "github.com/matzehuels/bibnet/pkg/errors"
	netio "github.com/matzehuels/bibnet/pkg/io"
	"github.com/matzehuels/bibnet/pkg/pipeline"
	"github.com/matzehuels/bibnet/pkg/sample"
	"github.com/matzehuels/bibnet/pkg/store"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.List(r.Context(), 1); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeStorage, err, "report store unreachable"))
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errs.New(errs.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}
	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// analyzeRequest is the body of POST /api/v1/analyses. Graphs are
// documents in the format written by the build command.
type analyzeRequest struct {
	Name    string           `json:"name"`
	Graph   json.RawMessage  `json:"graph"`
	Compare []namedGraph     `json:"compare,omitempty"`
	Options pipeline.Options `json:"options"`
}

type namedGraph struct {
	Name  string          `json:"name"`
	Graph json.RawMessage `json:"graph"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAnalyze(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	n, _, err := netio.DecodeNetwork(req.Graph)
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidFormat, err, "graph"))
		return
	}
	comparisons := make([]pipeline.Named, 0, len(req.Compare))
	for i, c := range req.Compare {
		cn, _, err := netio.DecodeNetwork(c.Graph)
		if err != nil {
			writeError(w, errs.Wrap(errs.ErrCodeInvalidFormat, err, "comparison %d", i))
			return
		}
		name := c.Name
		if name == "" {
			name = "comparison-" + strconv.Itoa(i+1)
		}
		comparisons = append(comparisons, pipeline.Named{Name: name, Network: cn})
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	rep, err := s.runner.Analyze(ctx, req.Name, n, comparisons, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), rep); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/reports/"+rep.ID)
	writeJSON(w, http.StatusCreated, rep)
}

// decodeAnalyze reads and checks a request body. Options start from the
// server defaults; file-system comparisons are not accepted over HTTP.
func (s *Server) decodeAnalyze(w http.ResponseWriter, r *http.Request) (*analyzeRequest, error) {
	req := analyzeRequest{Options: s.defaults}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request")
	}
	if len(req.Graph) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "graph is required")
	}
	if req.Name == "" {
		req.Name = "network"
	}
	if err := errs.ValidateNetworkName(req.Name); err != nil {
		return nil, err
	}
	for _, c := range req.Compare {
		if c.Name == "" {
			continue
		}
		if err := errs.ValidateNetworkName(c.Name); err != nil {
			return nil, err
		}
	}
	req.Options.Comparisons = nil
	req.Options.Progress = nil
	if req.Options.Samples > s.maxSamples || req.Options.OptimalSamples > s.maxSamples {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "at most %d samples per distribution", s.maxSamples)
	}
	if limit := s.maxSamples * sample.DefaultAttemptFactor; req.Options.MaxAttempts > limit {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "at most %d attempts per distribution", limit)
	}
	return &req, nil
}
