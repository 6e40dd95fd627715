package validators

import (
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

type PropertyValidator interface {
	ValidateSearch(req *models.SearchRequest) error
}
