package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DhruvGajera9022/Project-Management-App/internal/auth"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
	"github.com/DhruvGajera9022/Project-Management-App/internal/service"
)

// ProjectHandler serves project CRUD and analytics within a workspace.
type ProjectHandler struct {
	svc    *service.ProjectService
	logger *slog.Logger
}

func NewProjectHandler(svc *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, logger: logger}
}

// pageOptions reads pageSize/pageNumber query parameters. Missing or
// malformed values fall back to service defaults.
func pageOptions(r *http.Request) repository.ListOptions {
	var opts repository.ListOptions
	if size, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil {
		opts.Limit = size
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("pageNumber")); err == nil && page > 1 {
		size := opts.Limit
		if size <= 0 {
			size = 10
		}
		opts.Offset = (page - 1) * size
	}
	return opts
}

// HandleCreate adds a project to the workspace.
//
// HTTP: POST /api/workspace/{workspaceID}/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Emoji       string `json:"emoji"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.svc.Create(
		r.Context(), userID, r.PathValue("workspaceID"), body.Name, body.Description, body.Emoji,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"project": project})
}

// HandleList returns a page of the workspace's projects.
//
// HTTP: GET /api/workspace/{workspaceID}/projects?pageSize=10&pageNumber=1
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	page, err := h.svc.List(r.Context(), userID, r.PathValue("workspaceID"), pageOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGet returns one project.
//
// HTTP: GET /api/workspace/{workspaceID}/projects/{projectID}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	project, err := h.svc.Get(r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// HandleUpdate changes a project's name, description and emoji.
//
// HTTP: PUT /api/workspace/{workspaceID}/projects/{projectID}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Emoji       string `json:"emoji"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.svc.Update(
		r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("projectID"),
		body.Name, body.Description, body.Emoji,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// HandleDelete removes a project and its tasks.
//
// HTTP: DELETE /api/workspace/{workspaceID}/projects/{projectID}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("projectID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}

// HandleAnalytics returns total and completed task counts for a project.
//
// HTTP: GET /api/workspace/{workspaceID}/projects/{projectID}/analytics
func (h *ProjectHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	analytics, err := h.svc.Analytics(r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analytics": analytics})
}
