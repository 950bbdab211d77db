package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/service"
)

type CourseAdminController struct {
	courseService service.CourseService
}

func NewCourseAdminController(courseService service.CourseService) *CourseAdminController {
	return &CourseAdminController{courseService: courseService}
}

// CreateCourse godoc
// @Summary (Admin) Create a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Param body body dto.CourseCreateDTO true "Course with opaque slides/quiz JSON"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/courses [post]
func (c *CourseAdminController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}

	course, err := c.courseService.Create(req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create course"})
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// UpdateCourse godoc
// @Summary (Admin) Update a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param body body dto.CourseCreateDTO true "Course"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/courses/{course_id} [put]
func (c *CourseAdminController) UpdateCourse(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "course_id")
	if !ok {
		return
	}
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}

	course, err := c.courseService.Update(courseID, req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Course not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update course"})
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary (Admin) Delete a course
// @Description Outstanding progress slots pointing at the course become stale; Resume reports them as an integrity failure and clears them.
// @Tags Admin - Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/courses/{course_id} [delete]
func (c *CourseAdminController) DeleteCourse(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "course_id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(courseID); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete course"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Course deleted"})
}
