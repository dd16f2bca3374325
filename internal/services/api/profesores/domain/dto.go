// Package domain holds DTOs for the profesores HTTP and service contracts
package domain

// Rating is one resolved professor with their published score
type Rating struct {
	// Name is the professor's name as the ratings site spells it
	Name string `json:"name" example:"María José Núñez Gómez"`
	// Rating is the published score rounded to one decimal place
	Rating float64 `json:"rating" example:"8.8"`
	// CommentCount is how many student comments back the score
	CommentCount int `json:"commentCount" example:"12"`
	// ID is the site's listing id for the professor
	ID string `json:"id" example:"123"`
	// URL points at the professor's profile page
	URL string `json:"url" example:"https://www.misprofesores.com/profesores/Maria-Nuñez-Gomez_123"`
}

// BatchInput carries roster names to resolve in one request
// Order of the response mirrors the order given here
type BatchInput struct {
	ProfessorNames []string `json:"professorNames" validate:"omitempty,dive,max=200" example:"María José Núñez Gómez"`
}
