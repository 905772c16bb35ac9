package course

import "gorm.io/gorm"

const (
	ContentTypeVideo = "VIDEO"
	ContentTypeText  = "TEXT"
	ContentTypeImage = "IMAGE"
)

// Module represents one playback unit within a course. Modules unlock
// strictly in OrderIndex order: a module is locked until its predecessor is
// completed.
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, IMAGE
	TextContent string `json:"text_content" gorm:"type:text"`      // For TEXT type
	VideoURL    string `json:"video_url"`                          // For VIDEO type
	ImageURL    string `json:"image_url"`                          // For IMAGE type
	Duration    string `json:"duration" gorm:"default:''"`         // display label, e.g. "12 min"
	OrderIndex  int    `json:"order_index" gorm:"default:0"`       // Module order in course
	IsDeleted   bool   `gorm:"default:false"`
}
