package models

import "time"

// HistoryRecord is an immutable log entry for one tool invocation by one user.
type HistoryRecord struct {
	ID          int64     `json:"id"`
	ToolName    string    `json:"tool_name"`
	InputText   *string   `json:"input_text"`
	InputImages []string  `json:"input_img"`
	OutputText  *string   `json:"output_text"`
	OutputImg   *string   `json:"output_img"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username,omitempty"` // Resolved owner name, admin listing only
	CreatedAt   time.Time `json:"created_at"`
}
