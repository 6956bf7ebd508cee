package model

// Printer is created lazily from ingested jobs, one row per (name, site)
type Printer struct {
	BaseModel
	Name            string `gorm:"type:varchar(255);not null;index:idx_printer_site,unique" json:"name"`
	SiteID          int    `gorm:"not null;index:idx_printer_site,unique" json:"site_id"`
	IPAddress       string `gorm:"type:varchar(45)" json:"ip_address"`
	Location        string `gorm:"type:varchar(255)" json:"location"`
	IsColor         bool   `gorm:"default:false" json:"is_color"`
	IsDuplexCapable bool   `gorm:"default:false" json:"is_duplex_capable"`
	IsActive        bool   `gorm:"default:true" json:"is_active"`
}

// TableName specifies the table name for Printer model
func (Printer) TableName() string {
	return "printers"
}
