package curriculum

// Resource is an attachment owned by exactly one lesson. Deletion is by id
// and irreversible once confirmed to the backend.
type Resource struct {
	ID       string `json:"id"`
	LessonID string `json:"lesson_id"`
	Title    string `json:"title"`
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`
}
