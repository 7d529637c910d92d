package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"irs-responder/internal/logger"
	"irs-responder/internal/middleware"
	"irs-responder/internal/responder"
)

// Handler serves drafts to guarded routes. Every route expects a session on
// the gin context; mount them behind the page or API guard.
type Handler struct {
	service *responder.Service
}

func NewHandler(service *responder.Service) *Handler {
	return &Handler{service: service}
}

// RegisterAPI mounts the JSON routes. r is expected to be the /api group.
func (h *Handler) RegisterAPI(r gin.IRoutes) {
	r.GET("/me", h.me)
	r.GET("/notice-types", h.noticeTypes)
	r.GET("/drafts", h.listDrafts)
	r.POST("/drafts", h.createDraft)
	r.GET("/drafts/:id", h.getDraft)
	r.DELETE("/drafts/:id", h.deleteDraft)
}

// RegisterPages mounts the HTML routes.
func (h *Handler) RegisterPages(r gin.IRoutes) {
	r.GET("/dashboard", h.dashboardPage)
	r.GET("/drafts/new", h.newDraftPage)
	r.POST("/drafts", h.submitDraft)
	r.GET("/drafts/:id", h.draftPage)
}

func (h *Handler) me(c *gin.Context) {
	sess := middleware.MustSession(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":    sess.Subject(),
		"expires_at": sess.ExpiresAt,
	})
}

func (h *Handler) noticeTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notice_types": responder.Notices()})
}

func (h *Handler) listDrafts(c *gin.Context) {
	sess := middleware.MustSession(c)

	drafts, err := h.service.List(c.Request.Context(), sess.Subject())
	if err != nil {
		h.internalError(c, "list drafts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

func (h *Handler) createDraft(c *gin.Context) {
	sess := middleware.MustSession(c)

	var req responder.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	draft, err := h.service.Generate(c.Request.Context(), sess.Subject(), req)
	switch {
	case errors.Is(err, responder.ErrUnknownNoticeType), errors.Is(err, responder.ErrInvalidDraft):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.internalError(c, "generate draft", err)
		return
	}

	c.JSON(http.StatusCreated, draft)
}

func (h *Handler) getDraft(c *gin.Context) {
	sess := middleware.MustSession(c)

	draft, err := h.service.Get(c.Request.Context(), sess.Subject(), c.Param("id"))
	switch {
	case errors.Is(err, responder.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	case err != nil:
		h.internalError(c, "get draft", err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (h *Handler) deleteDraft(c *gin.Context) {
	sess := middleware.MustSession(c)

	err := h.service.Delete(c.Request.Context(), sess.Subject(), c.Param("id"))
	switch {
	case errors.Is(err, responder.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	case err != nil:
		h.internalError(c, "delete draft", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) dashboardPage(c *gin.Context) {
	sess := middleware.MustSession(c)

	drafts, err := h.service.List(c.Request.Context(), sess.Subject())
	if err != nil {
		logger.Error("dashboard: list drafts", map[string]any{"error": err.Error()})
		c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Drafts":  drafts,
		"Notices": responder.Notices(),
	})
}

func (h *Handler) newDraftPage(c *gin.Context) {
	c.HTML(http.StatusOK, "new_draft.html", gin.H{
		"Notices":   responder.Notices(),
		"Positions": []responder.Position{responder.Agree, responder.Disagree, responder.Partial},
		"Error":     c.Query("error"),
	})
}

// submitDraft is the form post behind /drafts/new. Outcomes are redirects:
// the new draft on success, the form with ?error= otherwise.
func (h *Handler) submitDraft(c *gin.Context) {
	sess := middleware.MustSession(c)

	var req responder.DraftRequest
	if err := c.ShouldBind(&req); err != nil {
		redirectToForm(c, "invalid request")
		return
	}

	draft, err := h.service.Generate(c.Request.Context(), sess.Subject(), req)
	switch {
	case errors.Is(err, responder.ErrUnknownNoticeType), errors.Is(err, responder.ErrInvalidDraft):
		redirectToForm(c, err.Error())
		return
	case err != nil:
		logger.Error("draft form: generate draft", map[string]any{"error": err.Error()})
		c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/drafts/"+url.PathEscape(draft.ID))
}

func redirectToForm(c *gin.Context, msg string) {
	c.Redirect(http.StatusSeeOther, "/drafts/new?error="+url.QueryEscape(msg))
}

func (h *Handler) draftPage(c *gin.Context) {
	sess := middleware.MustSession(c)

	draft, err := h.service.Get(c.Request.Context(), sess.Subject(), c.Param("id"))
	switch {
	case errors.Is(err, responder.ErrNotFound):
		c.String(http.StatusNotFound, "Response not found.")
		return
	case err != nil:
		logger.Error("draft page: get draft", map[string]any{"error": err.Error()})
		c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	c.HTML(http.StatusOK, "draft.html", gin.H{"Draft": draft})
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	logger.Error(op, map[string]any{"error": err.Error()})
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
