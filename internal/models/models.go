package models

import "time"

// Project lifecycle stages as shown in the stage picker.
const (
	StageIdeation    = "Ideation Stage"
	StageValidation  = "Idea Validation"
	StageMVP         = "MVP Development"
	StageBeta        = "Beta Testing"
	StageMarketReady = "Market Ready"
	StageScaling     = "Scaling"
)

// RoleFounder is the distinguished team role assigned to the project
// creator. Exactly one member per project holds it and that member can
// never leave or be edited out.
const RoleFounder = "Founder"

// Application statuses. PENDING is the only non-terminal state.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// Notification kinds.
const (
	NotifApplicationReceived = "application_received"
	NotifApplicationAccepted = "application_accepted"
	NotifApplicationRejected = "application_rejected"
)

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Title        string       `json:"title,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Location     string       `json:"location,omitempty"`
	Skills       []string     `json:"skills,omitempty"`
	Experiences  []Experience `json:"experiences,omitempty"`
	GithubURL    string       `json:"githubUrl,omitempty"`
	LinkedinURL  string       `json:"linkedinUrl,omitempty"`
	PortfolioURL string       `json:"portfolioUrl,omitempty"`
	IsAdmin      bool         `json:"isAdmin,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type TeamMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type OpenPosition struct {
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
	IsPaid bool     `json:"isPaid"`
}

type Project struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Industry      string         `json:"industry"`
	Stage         string         `json:"stage"`
	Funding       string         `json:"funding,omitempty"`
	Timeline      string         `json:"timeline,omitempty"`
	OpenPositions []OpenPosition `json:"openPositions"`
	TeamMembers   []TeamMember   `json:"teamMembers"`
	OwnerID       string         `json:"ownerId"`
	Applications  int            `json:"applications"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Founder returns the team member holding the founder role, or nil.
func (p *Project) Founder() *TeamMember {
	for i := range p.TeamMembers {
		if p.TeamMembers[i].Role == RoleFounder {
			return &p.TeamMembers[i]
		}
	}
	return nil
}

type Application struct {
	ID            string    `json:"id"`
	ApplicantID   string    `json:"applicantId"`
	ApplicantName string    `json:"applicantName"`
	ProjectID     string    `json:"projectId"`
	ProjectName   string    `json:"projectName"`
	Position      string    `json:"position"`
	Skills        []string  `json:"skills,omitempty"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
	ResumeURL     string    `json:"resumeUrl,omitempty"`
	Applicant     *User     `json:"userDetails,omitempty"`
	SubmittedAt   time.Time `json:"appliedDate"`
}

type Notification struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	ProjectName   string    `json:"projectName,omitempty"`
	ApplicantName string    `json:"applicantName,omitempty"`
	Position      string    `json:"position,omitempty"`
	Read          bool      `json:"read"`
	Link          string    `json:"link,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UserProjects is the per-user view derived from team member lists: a
// project id appears in Owned iff the user is its founder and in
// Participating iff the user is a non-founder member.
type UserProjects struct {
	Owned         []string `json:"ownedProjects"`
	Participating []string `json:"participatingProjects"`
}

type Hackathon struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Prize        string   `json:"prize"`
	Participants int      `json:"participants"`
	Status       string   `json:"status"`
	Categories   []string `json:"categories"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
