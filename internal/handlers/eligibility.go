package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
	"github.com/yungbote/degreeplanner-backend/internal/services"
)

type EligibilityHandler struct {
	log                *logger.Logger
	eligibilityService services.EligibilityService
}

func NewEligibilityHandler(log *logger.Logger, eligibilityService services.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{
		log:                log.With("handler", "EligibilityHandler"),
		eligibilityService: eligibilityService,
	}
}

func (h *EligibilityHandler) GetEligibleCourses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var upTo *uuid.UUID
	if raw := c.Query("upToSemesterId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "semester_id_invalid", err)
			return
		}
		upTo = &id
	}

	courses, err := h.eligibilityService.GetEligibleCourses(c.Request.Context(), userID, c.Query("search"), upTo)
	if err != nil {
		h.log.Error("GetEligibleCourses failed", "error", err, "user_id", userID)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}

func (h *EligibilityHandler) CheckEligibility(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	result, err := h.eligibilityService.CheckEligibility(c.Request.Context(), userID, c.Param("courseCode"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"eligibility": result})
}
