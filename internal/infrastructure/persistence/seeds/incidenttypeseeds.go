package seeds

import (
	"gorm.io/gorm"

	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/infrastructure/persistence/models"
)

// SeedIncidentTypes inserts the default catalog entries that are missing.
func SeedIncidentTypes(db *gorm.DB) error {
	for _, name := range incident.DefaultTypeNames {
		model := models.IncidentTypeModel{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&model).Error; err != nil {
			return err
		}
	}
	return nil
}
