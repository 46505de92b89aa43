package models

import "gorm.io/gorm"

type FoodSource string

const (
	FoodSourceCustom FoodSource = "CUSTOM"
	FoodSourceUSDA   FoodSource = "USDA"
)

// Food is a catalog entry. All nutrient values are per 100 grams.
type Food struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"` // mg

	VitaminA *float64 `json:"vitaminA,omitempty"`
	VitaminC *float64 `json:"vitaminC,omitempty"`
	Calcium  *float64 `json:"calcium,omitempty"`
	Iron     *float64 `json:"iron,omitempty"`

	Source    FoodSource `gorm:"type:varchar(20);not null;default:'CUSTOM'" json:"source"`
	UsdaFdcID *string    `gorm:"uniqueIndex" json:"usdaFdcId,omitempty"`
}
