// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwwei/user-center/internal/middleware"
	"github.com/jwwei/user-center/internal/team/model"
	"github.com/jwwei/user-center/internal/team/service"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
}

// New creates a new team handler instance.
func New(svc service.Service) *Handler {
	return &Handler{service: svc}
}

// Create handles POST /team/createTeam request.
// @Summary Create a team led by the caller
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body model.CreateTeamRequest true "Request"
// @Success 201 {object} model.TeamInfo
// @Failure 400 {object} ErrorResponse "Validation failure (INVALID_REQUEST)"
// @Router /team/createTeam [post].
func (h *Handler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	var req model.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	info, err := h.service.Create(c.Request.Context(), user.UserID, &req)
	if err != nil {
		if validationError(err) {
			errorResponse(c, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
			return
		}
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, info)
}

// Get handles GET /team/:teamId request.
// @Summary Get one team with its member list
// @Tags Teams
// @Produce json
// @Param teamId path string true "Team ID"
// @Success 200 {object} model.TeamInfo
// @Failure 403 {object} ErrorResponse "Caller is not a member"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Router /team/{teamId} [get].
func (h *Handler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	info, err := h.service.GetByID(c.Request.Context(), user.UserID, c.Param("teamId"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotMember):
			errorResponse(c, "FORBIDDEN", "not a member of this team", http.StatusForbidden)
		case errors.Is(err, model.ErrTeamNotFound):
			notFoundResponse(c, "team not found")
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, info)
}

// TeamsOfUser handles GET /team/teamsOfUsers request.
// @Summary List the caller's teams with member lists
// @Tags Teams
// @Produce json
// @Success 200 {array} model.TeamInfo
// @Failure 401 {object} ErrorResponse
// @Router /team/teamsOfUsers [get].
func (h *Handler) TeamsOfUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	infos, err := h.service.TeamsOfUser(c.Request.Context(), user.UserID)
	if err != nil {
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, infos)
}

// Update handles POST /team/updateTeam request.
// @Summary Update team fields (leader only)
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body model.UpdateTeamRequest true "Request"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse "Not the leader"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Router /team/updateTeam [post].
func (h *Handler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	var req model.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Update(c.Request.Context(), user.UserID, &req); err != nil {
		switch {
		case errors.Is(err, model.ErrTeamNotFound):
			notFoundResponse(c, "team not found")
		case errors.Is(err, model.ErrNotLeader):
			errorResponse(c, "FORBIDDEN", "only the team leader may do this", http.StatusForbidden)
		case validationError(err):
			errorResponse(c, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete handles POST /team/deleteTeam/:teamId request.
// @Summary Disband a team (leader only)
// @Tags Teams
// @Produce json
// @Param teamId path string true "Team ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse "Not the leader"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Router /team/deleteTeam/{teamId} [post].
func (h *Handler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), user.UserID, c.Param("teamId")); err != nil {
		switch {
		case errors.Is(err, model.ErrTeamNotFound):
			notFoundResponse(c, "team not found")
		case errors.Is(err, model.ErrNotLeader):
			errorResponse(c, "FORBIDDEN", "only the team leader may do this", http.StatusForbidden)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Search handles GET /team/searchTeams request.
// @Summary List teams the caller could join
// @Tags Teams
// @Produce json
// @Param name query string false "Name substring"
// @Param status query int false "Status code"
// @Param max_num query int false "Exact capacity"
// @Param joinable query bool false "Only unexpired teams with free slots"
// @Success 200 {object} model.Page
// @Failure 401 {object} ErrorResponse
// @Router /team/searchTeams [get].
func (h *Handler) Search(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	var req model.SearchTeamsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid query parameters", http.StatusBadRequest)
		return
	}

	page, err := h.service.Search(c.Request.Context(), user.UserID, &req)
	if err != nil {
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Join handles POST /team/joinTeam request.
// @Summary Join a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body model.JoinTeamRequest true "Request"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse "Wrong team password"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Failure 409 {object} ErrorResponse "Full, expired, already joined or busy"
// @Router /team/joinTeam [post].
func (h *Handler) Join(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	var req model.JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Join(c.Request.Context(), user.UserID, &req); err != nil {
		switch {
		case errors.Is(err, model.ErrTeamNotFound):
			notFoundResponse(c, "team not found")
		case errors.Is(err, model.ErrTeamExpired):
			errorResponse(c, "TEAM_EXPIRED", "team has expired", http.StatusConflict)
		case errors.Is(err, model.ErrTeamFull):
			errorResponse(c, "TEAM_FULL", "team is full", http.StatusConflict)
		case errors.Is(err, model.ErrAlreadyMember):
			errorResponse(c, "ALREADY_MEMBER", "already a member of this team", http.StatusConflict)
		case errors.Is(err, model.ErrPasswordRequired):
			errorResponse(c, "INVALID_REQUEST", "encrypted team requires a password", http.StatusBadRequest)
		case errors.Is(err, model.ErrWrongTeamPassword):
			errorResponse(c, "FORBIDDEN", "wrong team password", http.StatusForbidden)
		case errors.Is(err, model.ErrLockBusy):
			errorResponse(c, "BUSY", "team is busy, try again", http.StatusConflict)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Exit handles POST /team/exitTeam/:teamId request.
// @Summary Leave a team
// @Tags Teams
// @Produce json
// @Param teamId path string true "Team ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse "Team or membership not found"
// @Failure 409 {object} ErrorResponse "Leader must transfer or disband first"
// @Router /team/exitTeam/{teamId} [post].
func (h *Handler) Exit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	if err := h.service.Exit(c.Request.Context(), user.UserID, c.Param("teamId")); err != nil {
		switch {
		case errors.Is(err, model.ErrTeamNotFound):
			notFoundResponse(c, "team not found")
		case errors.Is(err, model.ErrNotMember):
			notFoundResponse(c, "not a member of this team")
		case errors.Is(err, model.ErrLeaderCannotExit):
			errorResponse(c, "LEADER_CANNOT_EXIT",
				"leader must transfer leadership or disband the team", http.StatusConflict)
		case errors.Is(err, model.ErrLockBusy):
			errorResponse(c, "BUSY", "team is busy, try again", http.StatusConflict)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RemoveMember handles POST /team/removeMemberByLeader request.
// @Summary Expel a member (leader only)
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body model.RemoveMemberRequest true "Request"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse "Not the leader"
// @Failure 404 {object} ErrorResponse "Team or membership not found"
// @Router /team/removeMemberByLeader [post].
func (h *Handler) RemoveMember(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	var req model.RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), user.UserID, &req); err != nil {
		switch {
		case errors.Is(err, model.ErrTeamNotFound):
			notFoundResponse(c, "team not found")
		case errors.Is(err, model.ErrNotMember):
			notFoundResponse(c, "member not found in this team")
		case errors.Is(err, model.ErrNotLeader):
			errorResponse(c, "FORBIDDEN", "only the team leader may do this", http.StatusForbidden)
		case errors.Is(err, model.ErrCannotRemoveSelf):
			errorResponse(c, "INVALID_REQUEST", "leader cannot remove themself", http.StatusBadRequest)
		case errors.Is(err, model.ErrLockBusy):
			errorResponse(c, "BUSY", "team is busy, try again", http.StatusConflict)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// TransferLeader handles POST /team/replaceMember request.
// @Summary Hand leadership to another member (leader only)
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body model.TransferLeaderRequest true "Request"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse "Not the leader"
// @Failure 404 {object} ErrorResponse "Team or membership not found"
// @Failure 409 {object} ErrorResponse "Target already leads the team"
// @Router /team/replaceMember [post].
func (h *Handler) TransferLeader(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	var req model.TransferLeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.TransferLeader(c.Request.Context(), user.UserID, &req); err != nil {
		switch {
		case errors.Is(err, model.ErrTeamNotFound):
			notFoundResponse(c, "team not found")
		case errors.Is(err, model.ErrNotMember):
			notFoundResponse(c, "member not found in this team")
		case errors.Is(err, model.ErrNotLeader):
			errorResponse(c, "FORBIDDEN", "only the team leader may do this", http.StatusForbidden)
		case errors.Is(err, model.ErrAlreadyLeader):
			errorResponse(c, "ALREADY_LEADER", "user is already the team leader", http.StatusConflict)
		case errors.Is(err, model.ErrLockBusy):
			errorResponse(c, "BUSY", "team is busy, try again", http.StatusConflict)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// validationError reports whether err is one of the team field validation errors.
func validationError(err error) bool {
	for _, candidate := range []error{
		model.ErrTeamNameRequired,
		model.ErrTeamNameTooLong,
		model.ErrDescriptionTooLong,
		model.ErrInvalidMaxNum,
		model.ErrInvalidStatus,
		model.ErrInvalidExpireTime,
		model.ErrPasswordRequired,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
