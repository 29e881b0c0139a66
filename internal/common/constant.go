// Package common contains constants and sentinel errors shared by the
// ThonHub client and the development backend.
package common

// Keys under which the credential pair is persisted.
const (
	AccessTokenKey  = "thonhub.accessToken"
	RefreshTokenKey = "thonhub.refreshToken"
)

// Header names used on every outbound request.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-Id"
	RequestTimeHeader   = "X-Request-Time"
)

// REST routes shared by the client services and the development backend.
const (
	LoginPath          = "/api/auth/login"
	RefreshPath        = "/api/auth/refresh"
	MePath             = "/api/users/me"
	OrgsPath           = "/api/orgs"
	HackathonsPath     = "/api/hackathons"
	ResumeUploadPath   = "/api/resume/upload"
	ResumeAnalyzePath  = "/api/resume/analyze"
	ResumeUploadField  = "file"
	DefaultAPIBaseURL  = "http://localhost:5000"
	DefaultCredentials = "thonhub.db"
)

// AllowedResumeExtensions lists resume file types accepted for upload.
var AllowedResumeExtensions = []string{"pdf", "docx", "txt"}
