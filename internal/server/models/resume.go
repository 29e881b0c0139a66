package models

// ResumeAnalysis is the keyword-based summary of a resume.
type ResumeAnalysis struct {
	Skills          []string `json:"skills"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	Score           int      `json:"score"`
	WordCount       int      `json:"word_count"`
	ExperienceLevel string   `json:"experience_level"`
}

// StoredResume describes an uploaded resume after it was written to the
// blob store.
type StoredResume struct {
	Key      string
	Filename string
	Size     int64
	URL      string
}
