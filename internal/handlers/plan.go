package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
	"github.com/yungbote/degreeplanner-backend/internal/requestdata"
	"github.com/yungbote/degreeplanner-backend/internal/services"
)

type PlanHandler struct {
	log            *logger.Logger
	plannerService services.PlannerService
}

func NewPlanHandler(log *logger.Logger, plannerService services.PlannerService) *PlanHandler {
	return &PlanHandler{
		log:            log.With("handler", "PlanHandler"),
		plannerService: plannerService,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (h *PlanHandler) GetMyPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dp, err := h.plannerService.GetOrCreatePlan(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("GetMyPlan failed", "error", err, "user_id", userID)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"plan": dp})
}

type addSemesterRequest struct {
	Year int    `json:"year" binding:"required"`
	Term string `json:"term" binding:"required"`
}

func (h *PlanHandler) AddSemester(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req addSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	term, ok := domain.ParseTerm(req.Term)
	if !ok {
		RespondError(c, http.StatusBadRequest, "term_invalid", nil)
		return
	}
	semester, err := h.plannerService.AddSemester(c.Request.Context(), userID, req.Year, term)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"semester": semester})
}

func (h *PlanHandler) DeleteSemester(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	semesterID, err := uuid.Parse(c.Param("semesterId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "semester_id_invalid", err)
		return
	}
	removed, err := h.plannerService.DeleteSemester(c.Request.Context(), userID, semesterID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": removed})
}

type addPlannedCourseRequest struct {
	CourseCode string `json:"course_code" binding:"required"`
}

func (h *PlanHandler) AddPlannedCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	semesterID, err := uuid.Parse(c.Param("semesterId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "semester_id_invalid", err)
		return
	}
	var req addPlannedCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	planned, err := h.plannerService.AddPlannedCourse(c.Request.Context(), userID, semesterID, req.CourseCode)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"planned_course": planned})
}

func (h *PlanHandler) DeletePlannedCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plannedID, err := uuid.Parse(c.Param("plannedCourseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "planned_course_id_invalid", err)
		return
	}
	removed, err := h.plannerService.DeletePlannedCourse(c.Request.Context(), userID, plannedID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": removed})
}

func (h *PlanHandler) DeletePlannedCourseWithDependents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plannedID, err := uuid.Parse(c.Param("plannedCourseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "planned_course_id_invalid", err)
		return
	}
	removed, err := h.plannerService.DeletePlannedCourseWithDependents(c.Request.Context(), userID, plannedID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": removed})
}
