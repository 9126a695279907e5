package usecase

import "github.com/Clark-Hu/cinelist/internal/domain"

func validatePage(page int) error {
	if page < domain.MinPage || page > domain.MaxPage {
		return domain.NewValidationError("page", "Page must be between 1 and 1000")
	}
	return nil
}

func validateMovieID(id int) error {
	if id <= 0 {
		return domain.NewValidationError("movie id", "Movie ID must be a positive integer")
	}
	return nil
}
