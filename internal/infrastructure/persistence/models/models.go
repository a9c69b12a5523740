package models

// AllModels lists the models managed by AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&IncidentTypeModel{},
		&UserModel{},
		&IncidentModel{},
		&IncidentPhotoModel{},
	}
}
