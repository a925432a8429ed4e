package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
	"github.com/yungbote/degreeplanner-backend/internal/services"
)

type GraphHandler struct {
	log               *logger.Logger
	dependencyService services.DependencyService
}

func NewGraphHandler(log *logger.Logger, dependencyService services.DependencyService) *GraphHandler {
	return &GraphHandler{
		log:               log.With("handler", "GraphHandler"),
		dependencyService: dependencyService,
	}
}

func (h *GraphHandler) GetPrerequisites(c *gin.Context) {
	h.respondCourses(c, "prerequisites", h.dependencyService.GetPrerequisites)
}

func (h *GraphHandler) GetDependents(c *gin.Context) {
	h.respondCourses(c, "dependents", h.dependencyService.GetDependents)
}

func (h *GraphHandler) GetPrerequisiteChain(c *gin.Context) {
	h.respondCourses(c, "prerequisites", h.dependencyService.GetPrerequisiteChain)
}

func (h *GraphHandler) GetDependentChain(c *gin.Context) {
	h.respondCourses(c, "dependents", h.dependencyService.GetDependentChain)
}

func (h *GraphHandler) respondCourses(c *gin.Context, key string, query func(context.Context, string) ([]*domain.Course, error)) {
	courses, err := query(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{key: courses})
}

type prerequisiteRequest struct {
	PrerequisiteID string `json:"prerequisite_id" binding:"required"`
}

func (h *GraphHandler) AddPrerequisite(c *gin.Context) {
	var req prerequisiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	edge, err := h.dependencyService.AddPrerequisite(c.Request.Context(), req.PrerequisiteID, c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"relationship": edge})
}

func (h *GraphHandler) RemovePrerequisite(c *gin.Context) {
	removed, err := h.dependencyService.RemovePrerequisite(c.Request.Context(), c.Param("prereqId"), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": removed})
}

func (h *GraphHandler) GetAllCourseRelationships(c *gin.Context) {
	rels, err := h.dependencyService.GetAllCourseRelationships(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"relationships": rels})
}
