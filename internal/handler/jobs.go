package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trademate/portal-server-go/internal/model"
)

type JobService interface {
	List(ctx context.Context, account *model.PortalAccount) ([]model.Job, error)
	Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Job, error)
}

type JobHandler struct {
	jobs JobService
}

func NewJobHandler(jobs JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) Routes(r chi.Router) {
	r.Get("/jobs", h.List)
	r.Get("/jobs/{id}", h.Get)
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}

	jobs, err := h.jobs.List(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}
	id, ok := pathID(w, r, "job")
	if !ok {
		return
	}

	job, err := h.jobs.Get(r.Context(), account, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
