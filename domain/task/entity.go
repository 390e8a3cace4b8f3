package task

import "time"

// Field limits for task content, measured in characters after trimming.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	UserID      string    `gorm:"index:idx_tasks_user_created,priority:1;not null;type:text" json:"user_id"`
	Title       string    `gorm:"not null;type:text" json:"title"`
	Description string    `gorm:"not null;type:text" json:"description"`
	Completed   bool      `gorm:"not null" json:"completed"`
	CreatedAt   time.Time `gorm:"index:idx_tasks_user_created,priority:2;not null" json:"created_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Changes is a partial update. A nil field is left untouched.
// Identity fields (id, user id, creation time) have no place here.
type Changes struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the change set touches no field.
func (c Changes) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Completed == nil
}
