package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Srijapotha/new-camme-project/internal/mocks"
	"github.com/Srijapotha/new-camme-project/internal/models"
)

func setupGroupRouter(handler *GroupHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/group/create", handler.Create)
	r.POST("/group/add-member", handler.AddMember)
	r.POST("/group/remove-member", handler.RemoveMember)
	r.POST("/group/my-groups", handler.MyGroups)
	return r
}

func adminID(id int) *int { return &id }

func TestCreateGroup(t *testing.T) {
	chats := new(mocks.ChatRepositoryMock)
	handler := NewGroupHandler(chats, new(mocks.UserRepositoryMock))
	router := setupGroupRouter(handler)

	chats.On("CreateGroup", mock.Anything, 1, "weekend crew", "dark", []int{2, 3}).
		Return(models.Chat{ID: 8, IsGroup: true, AdminID: adminID(1)}, nil).Once()

	rec := postJSON(router, "/group/create", `{"name":"weekend crew","theme":"dark","memberIds":[2,3]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	chats.AssertExpectations(t)
}

func TestAddMemberRequiresAdmin(t *testing.T) {
	chats := new(mocks.ChatRepositoryMock)
	handler := NewGroupHandler(chats, new(mocks.UserRepositoryMock))
	router := setupGroupRouter(handler)

	chats.On("GetChat", mock.Anything, 8).
		Return(models.Chat{ID: 8, IsGroup: true, AdminID: adminID(2)}, nil).Once()

	rec := postJSON(router, "/group/add-member", `{"groupId":8,"userId":3}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	chats.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMemberByAdmin(t *testing.T) {
	chats := new(mocks.ChatRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	handler := NewGroupHandler(chats, users)
	router := setupGroupRouter(handler)

	chats.On("GetChat", mock.Anything, 8).
		Return(models.Chat{ID: 8, IsGroup: true, AdminID: adminID(1)}, nil).Once()
	users.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()
	chats.On("AddMember", mock.Anything, 8, 3).Return(nil).Once()

	rec := postJSON(router, "/group/add-member", `{"groupId":8,"userId":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	chats.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestMyGroups(t *testing.T) {
	chats := new(mocks.ChatRepositoryMock)
	handler := NewGroupHandler(chats, new(mocks.UserRepositoryMock))
	router := setupGroupRouter(handler)

	chats.On("ListGroupsForUser", mock.Anything, 1).Return([]models.Chat{{ID: 8, IsGroup: true}}, nil).Once()

	rec := postJSON(router, "/group/my-groups", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	chats.AssertExpectations(t)
}
