package models

// ResumeAnalysis is produced by the resume analyzer.
type ResumeAnalysis struct {
	Skills          []string `json:"skills"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	Score           int      `json:"score"`
	WordCount       int      `json:"word_count"`
	ExperienceLevel string   `json:"experience_level"`
}

// ResumeUpload is the body returned by POST /api/resume/upload.
type ResumeUpload struct {
	Success  bool            `json:"success"`
	Filename string          `json:"filename"`
	Analysis *ResumeAnalysis `json:"analysis"`
}

// ResumeAnalyzeResult is the body returned by POST /api/resume/analyze.
type ResumeAnalyzeResult struct {
	Success  bool            `json:"success"`
	Analysis *ResumeAnalysis `json:"analysis"`
}
