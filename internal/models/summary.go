package models

import "time"

// DailySummary aggregates one user's meals within a single calendar day.
// Derived on demand, never stored.
type DailySummary struct {
	Date          string  `json:"date"`
	MealCount     int     `json:"meal_count"`
	TotalCalories float64 `json:"total_calories"`
	TotalProteinG float64 `json:"total_protein_g"`
	TotalCarbsG   float64 `json:"total_carbs_g"`
	TotalFatsG    float64 `json:"total_fats_g"`
	TotalFiberG   float64 `json:"total_fiber_g"`
}

// WeeklyStats covers the 7-day window starting at StartDate.
type WeeklyStats struct {
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TotalAnalyses  int     `json:"total_analyses"`
	AvgCalories    float64 `json:"avg_calories"`
	AvgProteinG    float64 `json:"avg_protein_g"`
	AvgCarbsG      float64 `json:"avg_carbs_g"`
	AvgFatsG       float64 `json:"avg_fats_g"`
	AvgFiberG      float64 `json:"avg_fiber_g"`
	MostCommonFood string  `json:"most_common_food,omitempty"`
}

// FoodCount is one entry in an AllTimeStats food ranking.
type FoodCount struct {
	FoodName string `json:"food_name"`
	Count    int    `json:"count"`
}

// AllTimeStats summarizes a user's entire history.
type AllTimeStats struct {
	TotalAnalyses    int         `json:"total_analyses"`
	AvgDailyCalories float64     `json:"avg_daily_calories"`
	AvgCalories      float64     `json:"avg_calories"`
	AvgProteinG      float64     `json:"avg_protein_g"`
	AvgCarbsG        float64     `json:"avg_carbs_g"`
	AvgFatsG         float64     `json:"avg_fats_g"`
	TopFoods         []FoodCount `json:"top_foods"`
	DaysTracked      int         `json:"days_tracked"`
	FirstAnalysis    *time.Time  `json:"first_analysis,omitempty"`
}
