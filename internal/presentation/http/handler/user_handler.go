package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
)

// UserHandler handles till operator management
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser registers a cashier or manager
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &service.CreateUserInput{
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "User created", response.NewUserResponse(user))
}

// ListUsers lists every account
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]response.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, response.NewUserResponse(&users[i]))
	}
	response.OK(c, "Users retrieved", out)
}
