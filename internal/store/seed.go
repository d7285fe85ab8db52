package store

import (
	"fmt"

	"squadnet/internal/models"
)

// Seed loads the demo dataset. State lives in memory only, so this
// runs on every start.
func (s *Store) Seed() error {
	demo, err := s.CreateUser("Maya Iyer", "maya@squad.net")
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	owner, err := s.CreateUser("Daniel Okafor", "daniel@squad.net")
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	s.mu.Lock()
	s.users[demo.ID].IsAdmin = true
	s.mu.Unlock()

	_, err = s.CreateProject(ProjectInput{
		Title:       "AI Image Recognition App",
		Description: "An application that uses machine learning to identify objects in images",
		Industry:    "Technology",
		Stage:       models.StageBeta,
		Funding:     "₹30,00,000",
		OpenPositions: []models.OpenPosition{
			{Role: "Frontend Developer", Skills: []string{"React Native", "TypeScript"}, IsPaid: true},
			{Role: "UX Designer", Skills: []string{"UI/UX", "Figma"}},
		},
	}, models.TeamMember{ID: demo.ID, Name: demo.Name})
	if err != nil {
		return fmt.Errorf("seed projects: %w", err)
	}

	_, err = s.CreateProject(ProjectInput{
		Title:       "Smart Home IoT System",
		Description: "A comprehensive IoT system for home automation and energy efficiency",
		Industry:    "IoT",
		Stage:       models.StageMVP,
		Funding:     "₹25,00,000",
		OpenPositions: []models.OpenPosition{
			{Role: "Backend Developer", Skills: []string{"Node.js", "MongoDB"}, IsPaid: true},
			{Role: "Hardware Engineer", Skills: []string{"Arduino", "Raspberry Pi"}},
		},
	}, models.TeamMember{ID: owner.ID, Name: owner.Name})
	if err != nil {
		return fmt.Errorf("seed projects: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range []*models.Hackathon{
		{
			ID:           "h1",
			Title:        "FinTech Innovation Challenge",
			Description:  "Build the next generation of financial technology solutions",
			StartDate:    "2026-02-15",
			EndDate:      "2026-02-17",
			Prize:        "₹5,00,000",
			Participants: 150,
			Status:       "upcoming",
			Categories:   []string{"Blockchain", "AI/ML", "Mobile Apps"},
		},
		{
			ID:           "h2",
			Title:        "Sustainable Tech Hackathon",
			Description:  "Create technology solutions for environmental challenges",
			StartDate:    "2026-01-20",
			EndDate:      "2026-01-22",
			Prize:        "₹3,00,000",
			Participants: 89,
			Status:       "ongoing",
			Categories:   []string{"IoT", "Clean Energy", "Data Analytics"},
		},
	} {
		s.hackathons[h.ID] = h
	}
	return nil
}
