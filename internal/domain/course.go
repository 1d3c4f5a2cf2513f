package domain

const (
	MaxCourseTitleLen       = 255
	MaxCourseDescriptionLen = 1000
	MaxCoursePlanLen        = 13000
)

// Course mirrors the Course API's course resource. Optional text fields are
// omitted from createCourse when empty.
type Course struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	CompanyID           string `json:"companyId"`
	Duration            int    `json:"duration"`
	Description         string `json:"description,omitempty"`
	FolderID            string `json:"folderId,omitempty"`
	FinalizedCoursePlan string `json:"finalizedCoursePlan,omitempty"`
	IsPublished         bool   `json:"isPublished"`
	IsAutoplay          bool   `json:"isAutoplay"`
	IsScorable          bool   `json:"isScorable"`
	GradientFromColor   string `json:"gradientFromColor,omitempty"`
	GradientToColor     string `json:"gradientToColor,omitempty"`
	ThemeID             string `json:"themeId,omitempty"`
	CreatedByAgent      bool   `json:"createdByAgent"`
}
