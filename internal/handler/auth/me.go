package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httpx "aurabox/internal/pkg/http"

	"aurabox/internal/model"
	"aurabox/internal/pkg/ctxutil"
	"aurabox/internal/service"
)

// GetMe 获取当前访问者信息
// @Summary      获取当前访问者信息
// @Description  返回当前身份；已登录用户同时返回用户资料
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if identity.Kind == model.IdentityAbsent {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    httpx.CodeInvalidAuthHeader,
			Message: "未授权",
		})
		return
	}

	data := gin.H{"identity": identity}
	if identity.Kind == model.IdentityAuthenticated {
		user, err := h.authService.GetUserByID(c.Request.Context(), identity.UserID)
		if err != nil {
			code, errorCode := http.StatusInternalServerError, httpx.CodeInternal
			if errors.Is(err, service.ErrUserNotFound) {
				code, errorCode = http.StatusUnauthorized, httpx.CodeInvalidAuthHeader
			}
			c.JSON(code, ErrorResponse{
				Code:    errorCode,
				Message: err.Error(),
			})
			return
		}
		data["user"] = toUserInfo(user)
	}

	c.JSON(http.StatusOK, httpx.NewSuccessResponse("success", data))
}
