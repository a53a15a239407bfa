package model

import "time"

// CarBrand, CarModel and CarEngine are the vehicle reference tables the
// compatibility index joins against. They are managed by the catalog admin
// flows outside this service; the core only reads them.

type CarBrand struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;unique"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CarModel struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CarBrandID uint      `json:"car_brand_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	StartYear  *int      `json:"start_year,omitempty"`
	EndYear    *int      `json:"end_year,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CarEngine struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CarModelID uint      `json:"car_model_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	Volume     string    `json:"volume" gorm:"type:varchar(20)"`
	FuelType   string    `json:"fuel_type" gorm:"type:varchar(20)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
