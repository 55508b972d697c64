// Package router provides user module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jwwei/user-center/internal/user/handler"
	"github.com/jwwei/user-center/internal/user/service"
)

// RegisterRoutes registers user module routes. Routes past register and
// login require authentication, except getReferralData which serves
// anonymous callers too; admin routes additionally require the admin
// middleware.
func RegisterRoutes(r *gin.Engine, svc service.Service, authed, optional, admin gin.HandlerFunc) {
	h := handler.New(svc)

	r.POST("/user/register", h.Register)
	r.POST("/user/login", h.Login)
	r.GET("/user/getReferralData", optional, h.Referral)

	authGroup := r.Group("/user", authed)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/currentUser", h.CurrentUser)
	authGroup.POST("/updateUserProfile", h.UpdateProfile)
	authGroup.GET("/searchUserByTags", h.SearchByTags)

	adminGroup := r.Group("/user", authed, admin)
	adminGroup.POST("/searchUsers", h.SearchUsers)
	adminGroup.POST("/updateUserStatus", h.UpdateStatus)
	adminGroup.POST("/deleteUser/:id", h.Delete)
}
