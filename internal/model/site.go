package model

// Site groups agents by physical location
type Site struct {
	BaseModel
	SiteID       string `gorm:"type:varchar(50);uniqueIndex;not null" json:"site_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Address      string `gorm:"type:text" json:"address"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contact_email"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// TableName specifies the table name for Site model
func (Site) TableName() string {
	return "sites"
}
