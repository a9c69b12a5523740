package models

// IncidentModel is the incidents row. TypeName is filled by a join on read
// and is never written.
type IncidentModel struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	ReportedAt    int64   `gorm:"not null" json:"reported_at"`
	TypeID        uint    `gorm:"not null;index" json:"type_id"`
	TypeName      string  `gorm:"->;-:migration" json:"type_name"`
	Description   string  `gorm:"type:text;not null" json:"description"`
	Location      string  `gorm:"size:255;not null" json:"location"`
	Latitude      float32 `gorm:"not null" json:"latitude"`
	Longitude     float32 `gorm:"not null" json:"longitude"`
	Department    string  `gorm:"size:100;not null" json:"department"`
	State         string  `gorm:"size:20;not null;index" json:"state"`
	ReporterEmail string  `gorm:"size:255;not null;index" json:"reporter_email"`
	HasPhoto      bool    `gorm:"not null;default:false" json:"has_photo"`
	Version       int     `gorm:"not null;default:0" json:"version"`

	// Note: incident_types.id is referenced with ON DELETE RESTRICT in the SQL
	// migrations; AutoMigrate does not create the constraint.
}

func (IncidentModel) TableName() string {
	return "incidents"
}

// IncidentPhotoModel keeps photo payloads out of list and search queries.
type IncidentPhotoModel struct {
	IncidentID uint   `gorm:"primaryKey;autoIncrement:false"`
	Data       []byte `gorm:"not null"`
}

func (IncidentPhotoModel) TableName() string {
	return "incident_photos"
}
