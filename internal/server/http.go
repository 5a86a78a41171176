package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ec429/hbuilder/internal/hangar"
	"github.com/ec429/hbuilder/internal/research"
)

// maxRecord bounds request bodies and websocket messages.
const maxRecord = 64 << 10

type errorResp struct {
	Err string `json:"err"`
}

type techResp struct {
	Ident     string `json:"ident"`
	Name      string `json:"name"`
	Year      int    `json:"year,omitempty"`
	Month     int    `json:"month,omitempty"`
	Unlocked  bool   `json:"unlocked"`
	Available bool   `json:"available"`
}

type techsResp struct {
	Version uint64     `json:"version"`
	Techs   []techResp `json:"techs"`
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /calc", s.handleCalc)
	mux.HandleFunc("GET /techs", s.handleTechs)
	mux.HandleFunc("POST /techs/{ident}/toggle", s.handleToggle)
	mux.HandleFunc("GET /designs", s.handleListDesigns)
	mux.HandleFunc("GET /designs/{name}", s.handleGetDesign)
	mux.HandleFunc("PUT /designs/{name}", s.handlePutDesign)
	mux.HandleFunc("DELETE /designs/{name}", s.handleDeleteDesign)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case isBadInput(err):
		status = http.StatusBadRequest
	case errors.Is(err, hangar.ErrNotFound):
		status = http.StatusNotFound
	case isUnprocessable(err):
		status = http.StatusUnprocessableEntity
	default:
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResp{Err: err.Error()})
}

func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRecord))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp{Err: err.Error()})
		return "", false
	}
	return string(body), true
}

func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	text, ok := readBody(w, r)
	if !ok {
		return
	}
	b, err := s.Evaluate(r.Context(), text, r.URL.Query().Get("parent"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewResult(b))
}

func (s *Server) techs() techsResp {
	cat, st := s.snapshot()
	resp := techsResp{Version: st.Version, Techs: make([]techResp, 0, len(cat.Techs))}
	for _, t := range cat.Techs {
		resp.Techs = append(resp.Techs, techResp{
			Ident:     t.Ident,
			Name:      t.Name,
			Year:      t.Year,
			Month:     t.Month,
			Unlocked:  st.Techs[t.Ident],
			Available: research.HaveReqs(cat, st, t.Ident),
		})
	}
	return resp
}

func (s *Server) handleTechs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.techs())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Toggle(r.PathValue("ident")); err != nil {
		if errors.Is(err, research.ErrUnknownTech) {
			writeJSON(w, http.StatusNotFound, errorResp{Err: err.Error()})
			return
		}
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.techs())
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if list == nil {
		list = []hangar.Entry{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handlePutDesign(w http.ResponseWriter, r *http.Request) {
	text, ok := readBody(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")
	if err := s.PutDesign(r.Context(), name, r.URL.Query().Get("parent"), text); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
