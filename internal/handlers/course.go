package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
	"github.com/yungbote/degreeplanner-backend/internal/services"
)

type CourseHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCourseHandler(log *logger.Logger, catalogService services.CatalogService) *CourseHandler {
	return &CourseHandler{
		log:            log.With("handler", "CourseHandler"),
		catalogService: catalogService,
	}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := domain.CourseFilter{
		Search:     c.Query("search"),
		Discipline: c.Query("discipline"),
		Label:      c.Query("label"),
	}
	if raw, ok := c.GetQuery("isElective"); ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsElective = &v
		}
	}

	courses, total, err := h.catalogService.ListCourses(c.Request.Context(), skip, limit, filter)
	if err != nil {
		h.log.Error("ListCourses failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"courses": courses, "total": total})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.catalogService.GetCourse(c.Request.Context(), c.Param("idOrCode"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if course == nil {
		RespondError(c, http.StatusNotFound, "course_not_found", nil)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) SearchCourses(c *gin.Context) {
	courses, err := h.catalogService.SearchCourses(c.Request.Context(), c.Query("q"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var input services.CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	course, err := h.catalogService.CreateCourse(c.Request.Context(), input)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"course": course})
}

type updateCourseRequest struct {
	CourseTitle     *string  `json:"course_title"`
	Description     *string  `json:"description"`
	SCHCredits      *int     `json:"sch_credits"`
	NCredits        *int     `json:"n_credits"`
	IsElective      *bool    `json:"isElective"`
	IsMinorElective *bool    `json:"isMinorElective"`
	IsSpecElective  *bool    `json:"isSpecElective"`
	Categories      []string `json:"categories"`
	Disciplines     []string `json:"disciplines"`
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req updateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	patch := domain.CoursePatch{
		CourseTitle:     req.CourseTitle,
		Description:     req.Description,
		SCHCredits:      req.SCHCredits,
		NCredits:        req.NCredits,
		IsElective:      req.IsElective,
		IsMinorElective: req.IsMinorElective,
		IsSpecElective:  req.IsSpecElective,
		Categories:      req.Categories,
		Disciplines:     req.Disciplines,
	}
	course, err := h.catalogService.UpdateCourse(c.Request.Context(), c.Param("idOrCode"), patch)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if course == nil {
		RespondError(c, http.StatusNotFound, "course_not_found", nil)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	removed, err := h.catalogService.DeleteCourse(c.Request.Context(), c.Param("idOrCode"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": removed})
}
