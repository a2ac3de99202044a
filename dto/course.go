package dto

// UpstreamCourse is the course document returned by the course service.
// Optional fields are pointers and get their defaults in the transform step.
type UpstreamCourse struct {
	ID                *int             `json:"id"`
	UUID              *string          `json:"uuid"`
	Title             *string          `json:"title"`
	Description       *string          `json:"description"`
	Image             *string          `json:"image"`
	Prerequisite      *string          `json:"prerequisite"`
	StartDate         *string          `json:"start_date"`
	EndDate           *string          `json:"end_date"`
	DifficultyLevel   *string          `json:"difficulty_level"`
	Progress          *float64         `json:"progress"`
	CompletionMessage *string          `json:"completion_message"`
	CreatedAt         *string          `json:"created_at"`
	UpdatedAt         *string          `json:"updated_at"`
	UserUUIDs         []CourseMember   `json:"user_uuids"`
	Categories        []CourseCategory `json:"categories"`
	Modules           []CourseModule   `json:"modules"`
	Folders           []CourseFolder   `json:"folders"`
}

type CourseMember struct {
	ID       int    `json:"id"`
	CourseID int    `json:"course_id"`
	UserUUID string `json:"user_uuid"`
}

type CourseCategory struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Icon  *string `json:"icon"`
}

type CourseModule struct {
	ID          int     `json:"id"`
	CourseID    int     `json:"course_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Position    int     `json:"position"`
}

type CourseFolder struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	CourseID int    `json:"course_id"`
}

// DashboardCourse is the compact card shown on the dashboard.
type DashboardCourse struct {
	ID           int              `json:"id"`
	UUID         *string          `json:"uuid"`
	Title        string           `json:"title"`
	Progress     int              `json:"progress"`
	Description  string           `json:"description"`
	Difficulty   string           `json:"difficulty"`
	Thumbnail    *string          `json:"thumbnail"`
	IsNew        bool             `json:"isNew"`
	NextLesson   string           `json:"nextLesson"`
	TimeLeft     string           `json:"timeLeft"`
	LastAccessed string           `json:"lastAccessed"`
	ModulesCount int              `json:"modules_count"`
	Categories   []CourseCategory `json:"categories"`
}

// UserCourse is the full course listing for a user, including its content tree.
type UserCourse struct {
	ID          *int           `json:"id"`
	UUID        *string        `json:"uuid"`
	Title       string         `json:"title"`
	Progress    int            `json:"progress"`
	Description string         `json:"description"`
	Difficulty  string         `json:"difficulty"`
	Thumbnail   *string        `json:"thumbnail"`
	IsNew       bool           `json:"isNew"`
	NextLesson  string         `json:"nextLesson"`
	TimeLeft    string         `json:"timeLeft"`
	Modules     []CourseModule `json:"modules"`
	Folders     []CourseFolder `json:"folders"`
}

type CourseListResponse struct {
	Courses  interface{} `json:"courses"`
	Fallback bool        `json:"fallback"`
	Message  string      `json:"message"`
}

type CreateCourseRequest struct {
	UUID         string   `json:"uuid" form:"uuid" validate:"omitempty,uuid"`
	Title        string   `json:"title" form:"title" validate:"required,max=255"`
	Description  string   `json:"description" form:"description" validate:"required,min=10"`
	Image        string   `json:"image" form:"-"`
	Prerequisite string   `json:"prerequisite,omitempty" form:"prerequisite"`
	StartDate    string   `json:"start_date,omitempty" form:"start_date"`
	EndDate      string   `json:"end_date,omitempty" form:"end_date"`
	Message      string   `json:"message,omitempty" form:"message"`
	Difficulty   string   `json:"difficulty,omitempty" form:"difficulty"`
	Progress     *float64 `json:"progress,omitempty" form:"progress" validate:"omitempty,min=0,max=100"`
	Categories   []string `json:"categories" form:"categories" validate:"required,min=1"`
	IsDraft      *bool    `json:"is_draft,omitempty" form:"is_draft"`
	UserUUIDs    []string `json:"user_uuids" form:"user_uuids" validate:"omitempty,dive,uuid"`
}

type CreateCourseResponse struct {
	UUID  string `json:"uuid"`
	Image string `json:"image"`
}

type CourseSettingsRequest struct {
	CourseID          string `json:"course_id" validate:"required,uuid"`
	StartDate         string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate           string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Prerequisite      string `json:"prerequisite,omitempty"`
	CompletionMessage string `json:"completion_message,omitempty"`
	DifficultyLevel   string `json:"difficulty_level,omitempty"`
}

type CreateModuleRequest struct {
	CourseID    string `json:"course_id" validate:"required,numeric|uuid"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position" validate:"min=0"`
}

func (r CreateCourseRequest) Validate() error {
	return GetValidator().Struct(r)
}

func (r CourseSettingsRequest) Validate() error {
	return GetValidator().Struct(r)
}

func (r CreateModuleRequest) Validate() error {
	return GetValidator().Struct(r)
}
