package models

// PlatformModes is the single-row table of marketplace toggles shown in the
// dashboard header. Only admins may flip them.
type PlatformModes struct {
	ID       uint `json:"-" gorm:"primaryKey"`
	Food     bool `json:"food" gorm:"default:true"`
	Grocery  bool `json:"grocery" gorm:"default:false"`
	Delivery bool `json:"delivery" gorm:"default:true"`
}
