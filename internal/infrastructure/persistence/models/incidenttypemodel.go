package models

type IncidentTypeModel struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null" json:"created_at"`
}

func (IncidentTypeModel) TableName() string {
	return "incident_types"
}
