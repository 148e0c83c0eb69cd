package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperr "github.com/enclens/enclens/pkg/errors"
	"github.com/enclens/enclens/pkg/graph"
	"github.com/enclens/enclens/pkg/rendition"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	result, err := s.result(r.Context(), chi.URLParam(r, "id"), refreshParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	result, err := s.result(r.Context(), chi.URLParam(r, "id"), refreshParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := exportOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(graph.ToDOT(result.Graph, opts)))
}

func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	result, err := s.result(r.Context(), chi.URLParam(r, "id"), refreshParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := exportOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	svg, err := graph.RenderSVG(r.Context(), result.Graph, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	result, err := s.result(r.Context(), chi.URLParam(r, "id"), refreshParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.PlayerSources())
}

// renditionsResponse is the payload of GET /renditions.
type renditionsResponse struct {
	Count  int             `json:"count"`
	Rows   []rendition.Row `json:"rows"`
	Groups []string        `json:"groups,omitempty"`
	Errors []string        `json:"errors,omitempty"`
}

func (s *Server) handleRenditions(w http.ResponseWriter, r *http.Request) {
	encodingID := chi.URLParam(r, "id")

	set := rendition.NewSet()
	warnings := rendition.Collect(r.Context(), s.client, set, encodingID)
	if set.Len() == 0 && len(warnings) > 0 {
		s.writeError(w, warnings[0])
		return
	}

	resp := renditionsResponse{}
	for _, warn := range warnings {
		resp.Errors = append(resp.Errors, warn.Error())
	}

	matched, errs := set.Filter(r.URL.Query().Get("filter"))
	for _, err := range errs {
		resp.Errors = append(resp.Errors, err.Error())
	}

	if spec := r.URL.Query().Get("group"); spec != "" {
		_, order, err := set.GroupBy(spec)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Groups = order
	}

	resp.Count = len(matched)
	resp.Rows = rendition.BuildTable(matched, r.URL.Query().Get("diff") == "1")
	writeJSON(w, http.StatusOK, resp)
}

func refreshParam(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "1"
}

// exportOptions parses the ?show= display-group list, e.g. "streams,muxings".
// Absent means the default-visible groups.
func exportOptions(r *http.Request) (graph.ExportOptions, error) {
	show := r.URL.Query().Get("show")
	if show == "" {
		return graph.OptionsForGroups(nil)
	}
	return graph.OptionsForGroups(strings.Split(show, ","))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.GetCode(err) {
	case apperr.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidFilter,
		apperr.ErrCodeInvalidField, apperr.ErrCodeInvalidCategory,
		apperr.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case apperr.ErrCodeNetwork, apperr.ErrCodeTimeout:
		status = http.StatusBadGateway
	}
	s.log.Error("request failed", "err", err)
	writeJSON(w, status, map[string]string{
		"error": apperr.UserMessage(err),
		"code":  string(apperr.GetCode(err)),
	})
}
