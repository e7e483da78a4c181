package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	DOB      string `json:"dob"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginUser struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	DBRole domain.Role `json:"dbRole"`
	Role   string      `json:"role"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

// Register creates a customer account. Staff roles can only be created by
// an account allowed to manage employees.
func (h *HTTPHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	if role != domain.RoleCustomer && !h.callerCan(c, domain.CapManageEmployees) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only administrators can create staff accounts"})
		return
	}

	var dob *time.Time
	if s := strings.TrimSpace(req.DOB); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dob must be YYYY-MM-DD"})
			return
		}
		dob = &t
	}

	account, err := h.svc.Auth.Register(c.Request.Context(), service.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		DOB:      dob,
		Role:     string(role),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	account, token, err := h.svc.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		User: loginUser{
			ID:     account.ID,
			Name:   account.Username,
			Email:  account.Email,
			DBRole: account.Role,
			Role:   account.Role.UIRole(),
		},
	})
}

// callerCan checks an optional bearer token on a public route.
func (h *HTTPHandler) callerCan(c *gin.Context, capability domain.Capability) bool {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	claims, err := h.svc.Tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return false
	}
	return claims.Role.Can(capability)
}
