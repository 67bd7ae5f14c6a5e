package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"assistant-hub/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Unknown errors become a
// plain 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrEmptyPrompt):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrThreadBusy), errors.Is(err, domain.ErrThreadClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrRunTimeout):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	case errors.Is(err, domain.ErrRunFailed), errors.Is(err, domain.ErrActionRequired):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// ---- companies ----

type companyCreateRequest struct {
	Name string `json:"name"`
}

func (s *Server) companyCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req companyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	co, err := s.companyUC.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, co)
}

func (s *Server) companyListHandler(w http.ResponseWriter, r *http.Request) {
	companies, err := s.companyUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": companies})
}

func (s *Server) companyGetHandler(w http.ResponseWriter, r *http.Request) {
	co, err := s.companyUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, co)
}

func (s *Server) companyDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.companyUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- assistants ----

type assistantCreateRequest struct {
	CompanyID    string `json:"company_id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
}

func (s *Server) assistantCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req assistantCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	a, err := s.assistantUC.Create(r.Context(), req.CompanyID, req.Name, req.Instructions, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) assistantListHandler(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		http.Error(w, "company_id is required", http.StatusBadRequest)
		return
	}
	assistants, err := s.assistantUC.ListByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": assistants})
}

func (s *Server) assistantGetHandler(w http.ResponseWriter, r *http.Request) {
	a, err := s.assistantUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) assistantDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.assistantUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type attachVectorStoreRequest struct {
	VectorStoreID string `json:"vector_store_id"`
}

func (s *Server) assistantAttachVectorStoreHandler(w http.ResponseWriter, r *http.Request) {
	var req attachVectorStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.assistantUC.AttachVectorStore(r.Context(), chi.URLParam(r, "id"), req.VectorStoreID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) modelsHandler(w http.ResponseWriter, r *http.Request) {
	models, err := s.assistantUC.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": models})
}

// ---- documents ----

type documentUploadRequest struct {
	CompanyID string `json:"company_id"`
	Path      string `json:"path"`
}

func (s *Server) documentUploadHandler(w http.ResponseWriter, r *http.Request) {
	var req documentUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	doc, err := s.documentUC.Upload(r.Context(), req.CompanyID, req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) documentListHandler(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		http.Error(w, "company_id is required", http.StatusBadRequest)
		return
	}
	docs, err := s.documentUC.ListByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": docs})
}

// ---- vector stores ----

type vectorStoreCreateRequest struct {
	CompanyID   string   `json:"company_id"`
	Name        string   `json:"name"`
	DocumentIDs []string `json:"document_ids"`
}

func (s *Server) vectorStoreCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req vectorStoreCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	vs, err := s.vectorStoreUC.Create(r.Context(), req.CompanyID, req.Name, req.DocumentIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vs)
}

func (s *Server) vectorStoreListHandler(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		http.Error(w, "company_id is required", http.StatusBadRequest)
		return
	}
	stores, err := s.vectorStoreUC.ListByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": stores})
}

type addDocumentRequest struct {
	DocumentID string `json:"document_id"`
}

func (s *Server) vectorStoreAddDocumentHandler(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.vectorStoreUC.AddDocument(r.Context(), chi.URLParam(r, "id"), req.DocumentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- threads ----

type threadCreateRequest struct {
	AssistantID string `json:"assistant_id"`
}

func (s *Server) threadCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req threadCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	t, err := s.conversationUC.StartThread(r.Context(), req.AssistantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) threadGetHandler(w http.ResponseWriter, r *http.Request) {
	t, err := s.conversationUC.GetThread(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) threadCloseHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.conversationUC.CloseThread(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

// askHandler blocks until the run finishes or the poll budget is spent.
func (s *Server) askHandler(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	reply, err := s.conversationUC.Ask(r.Context(), chi.URLParam(r, "id"), req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// ---- jobs ----

type jobEnqueueRequest struct {
	ThreadID string `json:"thread_id"`
	Prompt   string `json:"prompt"`
}

func (s *Server) jobEnqueueHandler(w http.ResponseWriter, r *http.Request) {
	var req jobEnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	job, err := s.conversationUC.EnqueueAsk(r.Context(), req.ThreadID, req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) jobGetHandler(w http.ResponseWriter, r *http.Request) {
	job, err := s.conversationUC.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) jobListHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	jobs, err := s.conversationUC.ListRecentJobs(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": jobs})
}
