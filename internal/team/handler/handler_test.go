package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwwei/user-center/internal/middleware"
	"github.com/jwwei/user-center/internal/team/model"
	"github.com/jwwei/user-center/internal/team/service"
	usermodel "github.com/jwwei/user-center/internal/user/model"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, leaderID string, req *model.CreateTeamRequest) (*model.TeamInfo, error) {
	args := m.Called(ctx, leaderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamInfo), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, actorID string, req *model.UpdateTeamRequest) error {
	args := m.Called(ctx, actorID, req)
	return args.Error(0)
}

func (m *mockService) Delete(ctx context.Context, actorID, teamID string) error {
	args := m.Called(ctx, actorID, teamID)
	return args.Error(0)
}

func (m *mockService) Search(ctx context.Context, userID string, req *model.SearchTeamsRequest) (*model.Page, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page), args.Error(1)
}

func (m *mockService) Join(ctx context.Context, userID string, req *model.JoinTeamRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func (m *mockService) Exit(ctx context.Context, userID, teamID string) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

func (m *mockService) RemoveMember(ctx context.Context, actorID string, req *model.RemoveMemberRequest) error {
	args := m.Called(ctx, actorID, req)
	return args.Error(0)
}

func (m *mockService) TransferLeader(ctx context.Context, actorID string, req *model.TransferLeaderRequest) error {
	args := m.Called(ctx, actorID, req)
	return args.Error(0)
}

func (m *mockService) TeamsOfUser(ctx context.Context, userID string) ([]model.TeamInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TeamInfo), args.Error(1)
}

func (m *mockService) GetByID(ctx context.Context, userID, teamID string) (*model.TeamInfo, error) {
	args := m.Called(ctx, userID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamInfo), args.Error(1)
}

var _ service.Service = (*mockService)(nil)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser injects an authenticated user the way the auth middleware would.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &usermodel.User{UserID: userID})
	}
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)
	return w
}

func TestHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/createTeam", asUser("u1"), handler.Create)

		req := &model.CreateTeamRequest{
			Name: "chess club", MaxNum: 5, ExpireTime: "2030-01-02 15:04:05",
		}
		mockSvc.On("Create", mock.Anything, "u1", req).
			Return(&model.TeamInfo{ID: "t1", Name: "chess club", LeaderID: "u1"}, nil)

		w := postJSON(router, "/team/createTeam", req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var info model.TeamInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, "t1", info.ID)
	})

	t.Run("validation failure maps to 400", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/createTeam", asUser("u1"), handler.Create)

		mockSvc.On("Create", mock.Anything, "u1", mock.Anything).
			Return(nil, model.ErrInvalidMaxNum)

		w := postJSON(router, "/team/createTeam", &model.CreateTeamRequest{
			Name: "chess club", MaxNum: 99, ExpireTime: "2030-01-02 15:04:05",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	})

	t.Run("missing auth maps to 401", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/createTeam", handler.Create)

		w := postJSON(router, "/team/createTeam", &model.CreateTeamRequest{Name: "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Get(t *testing.T) {
	t.Run("member sees the team", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.GET("/team/:teamId", asUser("u1"), handler.Get)

		mockSvc.On("GetByID", mock.Anything, "u1", "t1").
			Return(&model.TeamInfo{ID: "t1", Name: "chess club"}, nil)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("GET", "/team/t1", nil)
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-member maps to 403", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.GET("/team/:teamId", asUser("u1"), handler.Get)

		mockSvc.On("GetByID", mock.Anything, "u1", "t1").
			Return(nil, model.ErrNotMember)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("GET", "/team/t1", nil)
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown team maps to 404", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.GET("/team/:teamId", asUser("u1"), handler.Get)

		mockSvc.On("GetByID", mock.Anything, "u1", "ghost").
			Return(nil, model.ErrTeamNotFound)

		w := httptest.NewRecorder()
		httpReq, _ := http.NewRequest("GET", "/team/ghost", nil)
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Join(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"full team", model.ErrTeamFull, http.StatusConflict, "TEAM_FULL"},
		{"expired team", model.ErrTeamExpired, http.StatusConflict, "TEAM_EXPIRED"},
		{"already a member", model.ErrAlreadyMember, http.StatusConflict, "ALREADY_MEMBER"},
		{"wrong password", model.ErrWrongTeamPassword, http.StatusForbidden, "FORBIDDEN"},
		{"missing password", model.ErrPasswordRequired, http.StatusBadRequest, "INVALID_REQUEST"},
		{"busy lock", model.ErrLockBusy, http.StatusConflict, "BUSY"},
		{"unknown team", model.ErrTeamNotFound, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := new(mockService)
			handler := New(mockSvc)
			router := setupRouter()
			router.POST("/team/joinTeam", asUser("u1"), handler.Join)

			mockSvc.On("Join", mock.Anything, "u1", mock.Anything).Return(tc.err)

			w := postJSON(router, "/team/joinTeam", &model.JoinTeamRequest{TeamID: "t1"})

			assert.Equal(t, tc.wantCode, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantBody, resp.Error.Code)
		})
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/joinTeam", asUser("u1"), handler.Join)

		req := &model.JoinTeamRequest{TeamID: "t1", Password: "secret"}
		mockSvc.On("Join", mock.Anything, "u1", req).Return(nil)

		w := postJSON(router, "/team/joinTeam", req)
		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestHandler_Exit(t *testing.T) {
	t.Run("leader cannot exit maps to 409", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/exitTeam/:teamId", asUser("u1"), handler.Exit)

		mockSvc.On("Exit", mock.Anything, "u1", "t1").Return(model.ErrLeaderCannotExit)

		w := postJSON(router, "/team/exitTeam/t1", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "LEADER_CANNOT_EXIT", resp.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/exitTeam/:teamId", asUser("u1"), handler.Exit)

		mockSvc.On("Exit", mock.Anything, "u1", "t1").Return(nil)

		w := postJSON(router, "/team/exitTeam/t1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_RemoveMember(t *testing.T) {
	t.Run("non-leader maps to 403", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/removeMemberByLeader", asUser("u2"), handler.RemoveMember)

		mockSvc.On("RemoveMember", mock.Anything, "u2", mock.Anything).
			Return(model.ErrNotLeader)

		w := postJSON(router, "/team/removeMemberByLeader",
			&model.RemoveMemberRequest{TeamID: "t1", MemberID: "u3"})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("self removal maps to 400", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/removeMemberByLeader", asUser("u1"), handler.RemoveMember)

		mockSvc.On("RemoveMember", mock.Anything, "u1", mock.Anything).
			Return(model.ErrCannotRemoveSelf)

		w := postJSON(router, "/team/removeMemberByLeader",
			&model.RemoveMemberRequest{TeamID: "t1", MemberID: "u1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_TransferLeader(t *testing.T) {
	t.Run("transfer to current leader maps to 409", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/replaceMember", asUser("u1"), handler.TransferLeader)

		mockSvc.On("TransferLeader", mock.Anything, "u1", mock.Anything).
			Return(model.ErrAlreadyLeader)

		w := postJSON(router, "/team/replaceMember",
			&model.TransferLeaderRequest{TeamID: "t1", NewLeaderID: "u1"})

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ALREADY_LEADER", resp.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		handler := New(mockSvc)
		router := setupRouter()
		router.POST("/team/replaceMember", asUser("u1"), handler.TransferLeader)

		req := &model.TransferLeaderRequest{TeamID: "t1", NewLeaderID: "u2"}
		mockSvc.On("TransferLeader", mock.Anything, "u1", req).Return(nil)

		w := postJSON(router, "/team/replaceMember", req)
		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestHandler_Search(t *testing.T) {
	mockSvc := new(mockService)
	handler := New(mockSvc)
	router := setupRouter()
	router.GET("/team/searchTeams", asUser("u1"), handler.Search)

	mockSvc.On("Search", mock.Anything, "u1",
		&model.SearchTeamsRequest{Name: "chess", Joinable: true, Current: 1, PageSize: 5}).
		Return(&model.Page{Current: 1, PageSize: 5, Records: []model.TeamInfo{}}, nil)

	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest("GET",
		"/team/searchTeams?name=chess&joinable=true&current=1&page_size=5", nil)
	router.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestHandler_Delete(t *testing.T) {
	mockSvc := new(mockService)
	handler := New(mockSvc)
	router := setupRouter()
	router.POST("/team/deleteTeam/:teamId", asUser("u2"), handler.Delete)

	mockSvc.On("Delete", mock.Anything, "u2", "t1").Return(model.ErrNotLeader)

	w := postJSON(router, "/team/deleteTeam/t1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
