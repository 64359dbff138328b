package models

import "time"

type Restaurant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Cuisine   string    `json:"cuisine"`
	Lat       float64   `json:"lat" gorm:"not null"`
	Lon       float64   `json:"lon" gorm:"not null"`
	Rating    float64   `json:"rating" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
