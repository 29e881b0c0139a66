package services

import (
	"regexp"
	"strings"

	"github.com/thonhub/thonhub/internal/server/models"
)

// TechSkills are matched case-insensitively as substrings of the resume.
var TechSkills = []string{
	"Python", "Java", "JavaScript", "React", "Node.js",
	"SQL", "MongoDB", "AWS", "Docker", "Kubernetes",
	"Machine Learning", "Deep Learning", "TensorFlow",
	"PyTorch", "HTML", "CSS", "Git", "REST API",
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}`)
)

const (
	LevelJunior = "Junior"
	LevelMid    = "Mid-Level"
)

// AnalyzeText scores a resume by the known skills it mentions and pulls out
// the first email address and phone number.
//
// Score is 20 plus 10 per skill, capped at 100; more than five skills
// makes a candidate mid-level.
func AnalyzeText(text string) *models.ResumeAnalysis {
	lower := strings.ToLower(text)

	skills := make([]string, 0)
	for _, s := range TechSkills {
		if strings.Contains(lower, strings.ToLower(s)) {
			skills = append(skills, s)
		}
	}

	a := &models.ResumeAnalysis{
		Skills:          skills,
		Score:           min(100, len(skills)*10+20),
		WordCount:       len(strings.Fields(text)),
		ExperienceLevel: LevelJunior,
	}
	if len(skills) > 5 {
		a.ExperienceLevel = LevelMid
	}
	if m := emailPattern.FindString(text); m != "" {
		a.Email = &m
	}
	if m := phonePattern.FindString(text); m != "" {
		a.Phone = &m
	}
	return a
}
