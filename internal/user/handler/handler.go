// Package handler provides HTTP handlers for user endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwwei/user-center/internal/middleware"
	"github.com/jwwei/user-center/internal/user/model"
	"github.com/jwwei/user-center/internal/user/service"
)

// Handler handles HTTP requests for user endpoints.
type Handler struct {
	service service.Service
}

// New creates a new user handler instance.
func New(svc service.Service) *Handler {
	return &Handler{service: svc}
}

// Register handles POST /user/register request.
// @Summary Register a new account
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Request"
// @Success 201 {object} model.UserInfo
// @Failure 400 {object} ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 409 {object} ErrorResponse "Account taken (ACCOUNT_EXISTS)"
// @Router /user/register [post].
func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	info, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPasswordTooShort):
			errorResponse(c, "INVALID_REQUEST", "password is too short", http.StatusBadRequest)
		case errors.Is(err, model.ErrPasswordMismatch):
			errorResponse(c, "INVALID_REQUEST", "password confirmation does not match", http.StatusBadRequest)
		case errors.Is(err, model.ErrAccountExists):
			errorResponse(c, "ACCOUNT_EXISTS", "account already exists", http.StatusConflict)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, info)
}

// Login handles POST /user/login request.
// @Summary Authenticate and receive an identity token
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Request"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} ErrorResponse "Bad credentials"
// @Failure 403 {object} ErrorResponse "Account banned"
// @Router /user/login [post].
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrWrongPassword):
			errorResponse(c, "BAD_CREDENTIALS", "wrong account or password", http.StatusUnauthorized)
		case errors.Is(err, model.ErrUserBanned):
			errorResponse(c, "ACCOUNT_BANNED", "account is banned", http.StatusForbidden)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /user/logout request.
// @Summary Invalidate the current session
// @Tags Users
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} ErrorResponse
// @Router /user/logout [post].
func (h *Handler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	if err := h.service.Logout(c.Request.Context(), user.UserID); err != nil {
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CurrentUser handles GET /user/currentUser request.
// @Summary Get the fresh profile of the caller
// @Tags Users
// @Produce json
// @Success 200 {object} model.UserInfo
// @Failure 401 {object} ErrorResponse
// @Router /user/currentUser [get].
func (h *Handler) CurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	info, err := h.service.Current(c.Request.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			notFoundResponse(c, "user not found")
			return
		}
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, info)
}

// UpdateProfile handles POST /user/updateUserProfile request.
// @Summary Update profile fields for self, or any user when admin
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.UpdateProfileRequest true "Request"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} ErrorResponse "Not admin"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /user/updateUserProfile [post].
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), user, &req); err != nil {
		switch {
		case errors.Is(err, model.ErrNotAdmin):
			errorResponse(c, "FORBIDDEN", "admin access required", http.StatusForbidden)
		case errors.Is(err, model.ErrUserNotFound):
			notFoundResponse(c, "user not found")
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SearchUsers handles POST /user/searchUsers request (admin only).
// @Summary Search users by filter
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.SearchUsersRequest true "Request"
// @Success 200 {object} model.Page
// @Failure 403 {object} ErrorResponse
// @Router /user/searchUsers [post].
func (h *Handler) SearchUsers(c *gin.Context) {
	var req model.SearchUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	page, err := h.service.SearchUsers(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, page)
}

// UpdateStatus handles POST /user/updateUserStatus request (admin only).
// @Summary Ban or unban an account
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.UpdateStatusRequest true "Request"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /user/updateUserStatus [post].
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidStatus):
			errorResponse(c, "INVALID_REQUEST", "invalid user status", http.StatusBadRequest)
		case errors.Is(err, model.ErrUserNotFound):
			notFoundResponse(c, "user not found")
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete handles POST /user/deleteUser/:id request (admin only).
// @Summary Soft-delete a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 409 {object} ErrorResponse "Admin users cannot be deleted"
// @Router /user/deleteUser/{id} [post].
func (h *Handler) Delete(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		errorResponse(c, "INVALID_REQUEST", "id parameter is required", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			notFoundResponse(c, "user not found")
		case errors.Is(err, model.ErrAdminUndeletable):
			errorResponse(c, "ADMIN_UNDELETABLE", "admin users cannot be deleted", http.StatusConflict)
		default:
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SearchByTags handles GET /user/searchUserByTags request.
// @Summary Search active users holding all given tags
// @Tags Users
// @Produce json
// @Param tags query []string true "Tags" collectionFormat(multi)
// @Success 200 {object} model.Page
// @Failure 401 {object} ErrorResponse
// @Router /user/searchUserByTags [get].
func (h *Handler) SearchByTags(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "login required", http.StatusUnauthorized)
		return
	}

	req := model.SearchByTagsRequest{
		Tags:     c.QueryArray("tags"),
		Current:  intQuery(c, "current"),
		PageSize: intQuery(c, "page_size"),
	}

	page, err := h.service.SearchByTags(c.Request.Context(), user.UserID, &req)
	if err != nil {
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Referral handles GET /user/getReferralData request. The route serves
// anonymous callers: without an authenticated user the recommendations
// fall back to recency ordering instead of tag similarity.
// @Summary Get similarity-ranked user recommendations
// @Tags Users
// @Produce json
// @Param current query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.Page
// @Router /user/getReferralData [get].
func (h *Handler) Referral(c *gin.Context) {
	var currentUserID string
	if user, ok := middleware.CurrentUser(c); ok {
		currentUserID = user.UserID
	}

	req := model.ReferralRequest{
		Tags:     c.QueryArray("tags"),
		Current:  intQuery(c, "current"),
		PageSize: intQuery(c, "page_size"),
	}

	page, err := h.service.Referral(c.Request.Context(), currentUserID, &req)
	if err != nil {
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, page)
}

// intQuery parses an integer query parameter, zero when absent or malformed.
func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
