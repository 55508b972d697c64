// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jwwei/user-center/internal/team/handler"
	"github.com/jwwei/user-center/internal/team/service"
)

// RegisterRoutes registers team module routes. All of them require
// authentication.
func RegisterRoutes(r *gin.Engine, svc service.Service, authed gin.HandlerFunc) {
	h := handler.New(svc)

	group := r.Group("/team", authed)
	group.POST("/createTeam", h.Create)
	group.GET("/teamsOfUsers", h.TeamsOfUser)
	group.GET("/searchTeams", h.Search)
	group.POST("/updateTeam", h.Update)
	group.POST("/deleteTeam/:teamId", h.Delete)
	group.POST("/joinTeam", h.Join)
	group.POST("/exitTeam/:teamId", h.Exit)
	group.POST("/removeMemberByLeader", h.RemoveMember)
	group.POST("/replaceMember", h.TransferLeader)
	group.GET("/:teamId", h.Get)
}
