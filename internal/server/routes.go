package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"trader_market/internal/domain"
	"trader_market/internal/domain/entity"
	"trader_market/pkg/errcodes"
	"trader_market/pkg/logx"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.getV1Status)
		r.Post("/cycle", s.postV1Cycle)
	})
}

type statusResponse struct {
	Enabled    bool                `json:"enabled"`
	Running    bool                `json:"running"`
	Vendors    []string            `json:"vendors"`
	LastReport *entity.CycleReport `json:"last_report,omitempty"`
}

func (s Server) getV1Status(w http.ResponseWriter, r *http.Request) {
	response := statusResponse{
		Enabled: s.engine.Enabled(),
		Running: s.cycler.IsRunning(),
		Vendors: s.engine.ActiveVendors(r.Context()),
	}

	if report, ok := s.cycler.LastReport(); ok {
		response.LastReport = &report
	}

	writeJSON(w, r, http.StatusOK, response)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s Server) postV1Cycle(w http.ResponseWriter, r *http.Request) {
	report, err := s.cycler.RunOnce(r.Context())
	if err != nil {
		logger(r.Context()).Error("manual cycle failed", logx.Error(err))

		writeError(w, r, err)

		return
	}

	writeJSON(w, r, http.StatusOK, report)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := domain.GetCode(err)
	if !ok {
		code = errcodes.InternalServerError
	}

	writeJSON(w, r, http.StatusInternalServerError, errorResponse{
		Code:    string(code),
		Message: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(r.Context()).Error("json.Encode", logx.Error(err))
	}
}
