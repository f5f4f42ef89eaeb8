package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"aurabox/internal/ai"
	"aurabox/internal/model"
	"aurabox/internal/pkg/ctxutil"
	httpx "aurabox/internal/pkg/http"
	"aurabox/internal/service"
	"aurabox/internal/widget"
)

// WidgetHandler 组件处理器
type WidgetHandler struct {
	svc *service.WidgetService
}

// NewWidgetHandler 创建组件处理器
func NewWidgetHandler(svc *service.WidgetService) *WidgetHandler {
	return &WidgetHandler{svc: svc}
}

// Mount 挂载组件
// @Summary      挂载组件
// @Description  创建组件会话：游客额度重置，已登录用户加载最近一次对话
// @Tags         组件
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      model.MountRequest  false  "挂载参数"
// @Success      201      {object}  model.SessionResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /api/v1/widget/sessions [post]
func (h *WidgetHandler) Mount(c *gin.Context) {
	var req model.MountRequest
	// 请求体可选；分块传输时 ContentLength 为 -1，空体解码得到 io.EOF
	if c.Request.ContentLength != 0 && c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err)
			return
		}
	}

	identity := ctxutil.GetIdentity(c.Request.Context())
	session, err := h.svc.Mount(c.Request.Context(), identity, &req)
	if err != nil {
		writeWidgetError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

// Get 会话快照
// @Summary      会话快照
// @Tags         组件
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "会话ID"
// @Success      200  {object}  model.SessionResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/v1/widget/sessions/{id} [get]
func (h *WidgetHandler) Get(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// Unmount 卸载组件
// @Summary      卸载组件
// @Tags         组件
// @Security     BearerAuth
// @Param        id   path  string  true  "会话ID"
// @Success      204
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/v1/widget/sessions/{id} [delete]
func (h *WidgetHandler) Unmount(c *gin.Context) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	if err := h.svc.Unmount(c.Param("id"), identity); err != nil {
		writeWidgetError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendMessage 发送消息
// @Summary      发送消息
// @Description  一轮对话：空消息返回 204；游客额度用尽返回 403 且 auth_required=true；补全失败时返回兜底回复
// @Tags         组件
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "会话ID"
// @Param        request  body      model.SendMessageRequest  true  "消息"
// @Success      200      {object}  model.SendMessageResponse
// @Success      204
// @Failure      400      {object}  model.ErrorResponse
// @Failure      403      {object}  model.QuotaExceededResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /api/v1/widget/sessions/{id}/messages [post]
func (h *WidgetHandler) SendMessage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := session.Send(widget.SendInput{
		Text:    req.Text,
		Image:   req.Image,
		Caption: req.Caption,
	})
	if err != nil {
		writeWidgetError(c, err, session)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Seek 消息导航
// @Summary      消息导航
// @Description  index 指定绝对位置；否则按 step 前后移动；越界取最近的有效位置
// @Tags         组件
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "会话ID"
// @Param        request  body      model.SeekRequest  true  "导航"
// @Success      200      {object}  model.IndexResponse
// @Router       /api/v1/widget/sessions/{id}/index [put]
func (h *WidgetHandler) Seek(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req model.SeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	index, err := session.Seek(req.Index, req.Step)
	if err != nil {
		writeWidgetError(c, err, session)
		return
	}
	c.JSON(http.StatusOK, model.IndexResponse{CurrentIndex: index})
}

// AttachImage 附加图片
// @Summary      附加图片
// @Description  相机拍摄或文件选择的图片（data URI），附加后等待填写说明
// @Tags         组件
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "会话ID"
// @Param        request  body      model.AttachImageRequest  true  "图片"
// @Success      200      {object}  model.SessionResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /api/v1/widget/sessions/{id}/image [post]
func (h *WidgetHandler) AttachImage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req model.AttachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := session.AttachImage(req.Image); err != nil {
		writeWidgetError(c, err, session)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// DiscardImage 丢弃待发送图片
// @Summary      丢弃待发送图片
// @Tags         组件
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "会话ID"
// @Success      200  {object}  model.SessionResponse
// @Router       /api/v1/widget/sessions/{id}/image [delete]
func (h *WidgetHandler) DiscardImage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.DiscardImage(); err != nil {
		writeWidgetError(c, err, session)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// SetLanguage 切换语言
// @Summary      切换语言
// @Tags         组件
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "会话ID"
// @Param        request  body      model.LanguageRequest  true  "语言"
// @Success      200      {object}  model.SessionResponse
// @Router       /api/v1/widget/sessions/{id}/language [put]
func (h *WidgetHandler) SetLanguage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req model.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	lang, ok := ai.ParseLanguage(req.Language)
	if !ok {
		writeWidgetError(c, service.ErrUnsupportedLanguage, session)
		return
	}

	if err := session.SetLanguage(lang); err != nil {
		writeWidgetError(c, err, session)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// LauncherEvent 悬浮按钮事件
// @Summary      悬浮按钮事件
// @Description  down / move / up / resize；up 时返回识别出的手势
// @Tags         组件
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "会话ID"
// @Param        request  body      model.LauncherEventRequest  true  "事件"
// @Success      200      {object}  model.LauncherEventResponse
// @Router       /api/v1/widget/sessions/{id}/launcher/events [post]
func (h *WidgetHandler) LauncherEvent(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req model.LauncherEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ev := widget.LauncherEvent{
		Type:  req.Type,
		Point: widget.Point{X: req.X, Y: req.Y},
	}
	if req.Viewport != nil {
		ev.Viewport = &widget.Viewport{Width: req.Viewport.Width, Height: req.Viewport.Height}
	}

	gesture, err := session.HandleLauncherEvent(ev)
	if err != nil {
		writeWidgetError(c, err, session)
		return
	}

	c.JSON(http.StatusOK, model.LauncherEventResponse{
		Gesture:  gesture.String(),
		Launcher: session.Snapshot().Launcher,
	})
}

// ClosePanel 关闭对话面板
// @Summary      关闭对话面板
// @Tags         组件
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "会话ID"
// @Success      200  {object}  model.LauncherInfo
// @Router       /api/v1/widget/sessions/{id}/panel/close [post]
func (h *WidgetHandler) ClosePanel(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.ClosePanel(); err != nil {
		writeWidgetError(c, err, session)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot().Launcher)
}

// session 按路径参数查找当前身份的会话
func (h *WidgetHandler) session(c *gin.Context) (*widget.Session, bool) {
	identity := ctxutil.GetIdentity(c.Request.Context())
	session, err := h.svc.Get(c.Param("id"), identity)
	if err != nil {
		writeWidgetError(c, err, nil)
		return nil, false
	}
	return session, true
}

func badRequest(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.Error(c, http.StatusRequestEntityTooLarge, httpx.CodeBodyTooLarge, "Request body too large")
		return
	}
	httpx.Error(c, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", err.Error())
}

// writeWidgetError 把组件错误转换为 HTTP 响应
func writeWidgetError(c *gin.Context, err error, session *widget.Session) {
	switch {
	case errors.Is(err, widget.ErrEmptyTurn):
		c.Status(http.StatusNoContent)
	case errors.Is(err, widget.ErrQuotaExceeded):
		limit := widget.DefaultGuestTurnLimit
		if session != nil {
			limit = session.Snapshot().Quota.Limit
		}
		c.JSON(http.StatusForbidden, model.QuotaExceededResponse{
			Code:         httpx.CodeQuotaExceeded,
			Message:      "Guest limit reached, please sign in to continue",
			AuthRequired: true,
			Limit:        limit,
		})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, widget.ErrSessionClosed):
		httpx.Error(c, http.StatusNotFound, httpx.CodeNotFound, "Widget session not found")
	case errors.Is(err, widget.ErrTurnInFlight):
		httpx.Error(c, http.StatusConflict, httpx.CodeConflict, "A message is already being answered")
	case errors.Is(err, widget.ErrInvalidImage):
		httpx.Error(c, http.StatusBadRequest, httpx.CodeInvalidImage, "Invalid image", err.Error())
	case errors.Is(err, widget.ErrUnknownEvent):
		httpx.Error(c, http.StatusBadRequest, httpx.CodeInvalidEvent, "Invalid launcher event", err.Error())
	case errors.Is(err, service.ErrUnsupportedLanguage):
		httpx.Error(c, http.StatusBadRequest, httpx.CodeUnsupportedLanguage, "Unsupported language")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("widget request failed")
		httpx.Error(c, http.StatusInternalServerError, httpx.CodeInternal, "Internal Server Error")
	}
}
