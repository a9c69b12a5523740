package models

type UserModel struct {
	Email        string `gorm:"primaryKey;size:255" json:"email"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Surname      string `gorm:"size:100;not null" json:"surname"`
	BirthDate    string `gorm:"size:10" json:"birth_date"`
	Address      string `gorm:"size:255" json:"address"`
	Phone        string `gorm:"size:20" json:"phone"`
	PasswordHash string `gorm:"size:255;not null" json:"password_hash"`
	CreatedAt    int64  `gorm:"autoCreateTime:milli;not null" json:"created_at"`
}

func (UserModel) TableName() string {
	return "users"
}
