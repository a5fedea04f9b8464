package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dakshcoder1/Capstone-project-Final/internal/models"
)

// timeLayout is how timestamps appear in API responses.
const timeLayout = "2006-01-02 15:04:05"

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes the uniform JSON error body used by every endpoint.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// historyView is the API representation of a history record.
type historyView struct {
	ID         int64    `json:"id"`
	ToolName   string   `json:"tool_name"`
	InputText  *string  `json:"input_text"`
	InputImg   []string `json:"input_img"`
	OutputText *string  `json:"output_text"`
	OutputImg  *string  `json:"output_img"`
	UserID     int64    `json:"user_id"`
	Username   string   `json:"username,omitempty"`
	CreatedAt  string   `json:"created_at"`
}

func newHistoryView(record models.HistoryRecord) historyView {
	inputImg := record.InputImages
	if inputImg == nil {
		inputImg = []string{}
	}
	return historyView{
		ID:         record.ID,
		ToolName:   record.ToolName,
		InputText:  record.InputText,
		InputImg:   inputImg,
		OutputText: record.OutputText,
		OutputImg:  record.OutputImg,
		UserID:     record.UserID,
		Username:   record.Username,
		CreatedAt:  record.CreatedAt.Format(timeLayout),
	}
}

func newHistoryViews(records []models.HistoryRecord) []historyView {
	views := make([]historyView, 0, len(records))
	for _, record := range records {
		views = append(views, newHistoryView(record))
	}
	return views
}
