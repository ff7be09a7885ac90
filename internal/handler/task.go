package handler

import (
	"log/slog"
	"net/http"

	"github.com/DhruvGajera9022/Project-Management-App/internal/auth"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/service"
)

// TaskHandler serves task CRUD within a project.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

type taskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assignedTo"`
}

func (b taskBody) input() service.TaskInput {
	return service.TaskInput{
		Title:       b.Title,
		Description: b.Description,
		Status:      model.TaskStatus(b.Status),
		Priority:    model.TaskPriority(b.Priority),
		AssignedTo:  b.AssignedTo,
	}
}

// HandleCreate adds a task to a project.
//
// HTTP: POST /api/workspace/{workspaceID}/projects/{projectID}/tasks
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body taskBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.svc.Create(
		r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("projectID"), body.input(),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

// HandleList returns a page of a project's tasks.
//
// HTTP: GET /api/workspace/{workspaceID}/projects/{projectID}/tasks
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	tasks, err := h.svc.List(
		r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("projectID"), pageOptions(r),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// HandleGet returns one task.
//
// HTTP: GET /api/workspace/{workspaceID}/tasks/{taskID}
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	task, err := h.svc.Get(r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("taskID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

// HandleUpdate rewrites a task's editable fields.
//
// HTTP: PUT /api/workspace/{workspaceID}/tasks/{taskID}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body taskBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.svc.Update(
		r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("taskID"), body.input(),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

// HandleDelete removes a task.
//
// HTTP: DELETE /api/workspace/{workspaceID}/tasks/{taskID}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("taskID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
