package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httpx "aurabox/internal/pkg/http"

	"aurabox/internal/service"
)

// LoginRequest 用户登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名（必填）
	Password string `json:"password" binding:"required"` // 密码（必填）
}

// Login 用户登录
// @Summary      用户登录
// @Description  用户登录，返回Access Token；登录后组件不再限制对话轮数
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    httpx.CodeBadRequest,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		code := http.StatusInternalServerError
		errorCode := httpx.CodeInternal

		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
			code = http.StatusUnauthorized
			errorCode = httpx.CodeInvalidAuthHeader
		case errors.Is(err, service.ErrUserBanned):
			code = http.StatusForbidden
			errorCode = httpx.CodeUserBanned
		}

		c.JSON(code, ErrorResponse{
			Code:    errorCode,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, httpx.NewSuccessResponse("登录成功", tokenResponse(resp)))
}
