package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpx "aurabox/internal/pkg/http"
)

// Anonymous 匿名登录
// @Summary      匿名登录
// @Description  签发匿名令牌，匿名访问者按游客计算对话额度
// @Tags         认证
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/auth/anonymous [post]
func (h *Handler) Anonymous(c *gin.Context) {
	resp, err := h.authService.Anonymous(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    httpx.CodeInternal,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, httpx.NewSuccessResponse("success", tokenResponse(resp)))
}
