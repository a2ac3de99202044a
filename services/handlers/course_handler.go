package handlers

import (
	"mime/multipart"

	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/gofiber/fiber/v2"
)

type CourseHandler struct {
	courseSvc CourseServiceInterface
	userSvc   UserServiceInterface
}

func NewCourseHandler(courseSvc CourseServiceInterface, userSvc UserServiceInterface) *CourseHandler {
	return &CourseHandler{
		courseSvc: courseSvc,
		userSvc:   userSvc,
	}
}

func (h *CourseHandler) currentUserUUID(c *fiber.Ctx) (string, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return "", err
	}
	user, err := h.userSvc.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return "", err
	}
	return user.UUID, nil
}

// @Summary Dashboard courses
// @Description Up to four courses of the authenticated user. Falls back to sample data when the course service is unavailable.
// @Tags courses
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.CourseListResponse}
// @Router /api/v1/courses [get]
func (h *CourseHandler) GetDashboardCourses(c *fiber.Ctx) error {
	userUUID, err := h.currentUserUUID(c)
	if err != nil {
		return err
	}

	courses, err := h.courseSvc.GetDashboardCourses(c.UserContext(), userUUID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, courses.Message, courses)
}

// @Summary Courses by user UUID
// @Tags courses
// @Produce json
// @Param uuid path string true "User UUID"
// @Success 200 {object} shared.Response{data=dto.CourseListResponse}
// @Failure 404 {object} shared.Response
// @Failure 503 {object} shared.Response
// @Router /api/v1/courses/uuid/{uuid} [get]
func (h *CourseHandler) GetCoursesByUUID(c *fiber.Ctx) error {
	courses, err := h.courseSvc.GetCoursesByUUID(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, courses.Message, courses)
}

// @Summary Course detail
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.UpstreamCourse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/courses/details/{id} [get]
func (h *CourseHandler) GetCourseDetail(c *fiber.Ctx) error {
	course, err := h.courseSvc.GetCourseDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", course)
}

// @Summary Create a course
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param title formData string true "Title"
// @Param description formData string true "Description (min 10 characters)"
// @Param categories formData []string true "Categories" collectionFormat(multi)
// @Param image formData file false "Cover image (jpeg, png, jpg, gif; max 5MB)"
// @Success 201 {object} shared.Response{data=dto.CreateCourseResponse}
// @Failure 400 {object} shared.Response
// @Router /api/v1/courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	ownerUUID, err := h.currentUserUUID(c)
	if err != nil {
		return err
	}

	var image *multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		if files := form.File["image"]; len(files) > 0 {
			image = files[0]
		}
	}

	course, err := h.courseSvc.CreateCourse(c.UserContext(), ownerUUID, req, image)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, course)
}

// @Summary Add a module to a course
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.CreateModuleRequest true "Module"
// @Success 201 {object} shared.Response
// @Router /api/v1/courses/modules [post]
func (h *CourseHandler) CreateModule(c *fiber.Ctx) error {
	var req dto.CreateModuleRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	if err := h.courseSvc.CreateModule(c.UserContext(), req); err != nil {
		return err
	}

	return shared.ResponseCreated(c, nil)
}

// @Summary Update course settings
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.CourseSettingsRequest true "Settings"
// @Success 200 {object} shared.Response
// @Router /api/v1/courses/settings [put]
func (h *CourseHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.CourseSettingsRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	if err := h.courseSvc.UpdateSettings(c.UserContext(), req); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Course settings updated successfully", nil)
}
