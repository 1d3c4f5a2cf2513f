package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecards-backend/internal/http/response"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
	"github.com/yungbote/coursecards-backend/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseService.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.For(c.Request.Context()).Warn("GetCourse failed", "error", err, "course_id", c.Param("id"))
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var in services.CourseInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	course, err := h.courseService.CreateCourse(c.Request.Context(), in)
	if err != nil {
		h.log.For(c.Request.Context()).Warn("CreateCourse failed", "error", err)
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

func (h *CourseHandler) ListCards(c *gin.Context) {
	cards, err := h.courseService.ListCards(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.For(c.Request.Context()).Warn("ListCards failed", "error", err, "course_id", c.Param("id"))
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cards": cards})
}

func (h *CourseHandler) Overview(c *gin.Context) {
	ov, err := h.courseService.Overview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.For(c.Request.Context()).Warn("Overview failed", "error", err, "course_id", c.Param("id"))
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, ov)
}
