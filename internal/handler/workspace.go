package handler

import (
	"log/slog"
	"net/http"

	"github.com/DhruvGajera9022/Project-Management-App/internal/auth"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/service"
)

// WorkspaceHandler serves workspace CRUD, membership listing, invite
// joins, role changes and analytics.
type WorkspaceHandler struct {
	workspaces *service.WorkspaceService
	members    *service.MemberService
	logger     *slog.Logger
}

func NewWorkspaceHandler(workspaces *service.WorkspaceService, members *service.MemberService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaces: workspaces,
		members:    members,
		logger:     logger,
	}
}

// HandleCreate makes a new workspace owned by the caller.
//
// HTTP: POST /api/workspace
func (h *WorkspaceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	workspace, err := h.workspaces.Create(r.Context(), userID, body.Name, body.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"workspace": workspace})
}

// HandleList returns every workspace the caller belongs to.
//
// HTTP: GET /api/workspace
func (h *WorkspaceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	workspaces, err := h.workspaces.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": workspaces})
}

// HandleGet returns one workspace the caller is a member of.
//
// HTTP: GET /api/workspace/{workspaceID}
func (h *WorkspaceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	workspace, err := h.workspaces.GetByID(r.Context(), userID, r.PathValue("workspaceID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspace": workspace})
}

// HandleMembers lists a workspace's members with names and emails.
//
// HTTP: GET /api/workspace/{workspaceID}/members
func (h *WorkspaceHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	members, err := h.workspaces.Members(r.Context(), userID, r.PathValue("workspaceID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

// HandleUpdate changes a workspace's name and description.
//
// HTTP: PUT /api/workspace/{workspaceID}
func (h *WorkspaceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	workspace, err := h.workspaces.Update(r.Context(), userID, r.PathValue("workspaceID"), body.Name, body.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspace": workspace})
}

// HandleDelete removes a workspace and everything inside it.
//
// HTTP: DELETE /api/workspace/{workspaceID}
func (h *WorkspaceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.workspaces.Delete(r.Context(), userID, r.PathValue("workspaceID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Workspace deleted successfully"})
}

// HandleAnalytics returns member/project/task counts for a workspace.
//
// HTTP: GET /api/workspace/{workspaceID}/analytics
func (h *WorkspaceHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	analytics, err := h.workspaces.Analytics(r.Context(), userID, r.PathValue("workspaceID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analytics": analytics})
}

// HandleJoin adds the caller to the workspace behind an invite code.
//
// HTTP: POST /api/member/workspace/{inviteCode}/join
func (h *WorkspaceHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	member, err := h.members.JoinByInviteCode(r.Context(), userID, r.PathValue("inviteCode"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Successfully joined the workspace",
		"member":  member,
	})
}

// HandleChangeMemberRole sets another member's role within a workspace.
//
// HTTP: PUT /api/workspace/{workspaceID}/members/{memberID}/role
func (h *WorkspaceHandler) HandleChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var body struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	err := h.members.ChangeMemberRole(
		r.Context(), userID, r.PathValue("workspaceID"), r.PathValue("memberID"), rbac.Role(body.Role),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Member role updated successfully"})
}
