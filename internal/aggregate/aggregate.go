// Package aggregate computes derived nutrition summaries from a slice of
// records. All functions are pure; callers pass a date-filtered view from the
// history store and nothing is retained past the computation. Calendar-day
// boundaries are taken in UTC.
package aggregate

import (
	"time"

	"github.com/macrosnap/backend/internal/models"
)

const dateLayout = "2006-01-02"

// Daily sums one user's macros for the calendar day containing day.
// Zero matching records yields a zero-valued summary.
func Daily(records []models.NutritionRecord, day time.Time) models.DailySummary {
	summary := models.DailySummary{Date: day.UTC().Format(dateLayout)}

	for _, r := range records {
		if r.CreatedAt.UTC().Format(dateLayout) != summary.Date {
			continue
		}
		summary.MealCount++
		summary.TotalCalories += r.Calories
		summary.TotalProteinG += r.ProteinG
		summary.TotalCarbsG += r.CarbsG
		summary.TotalFatsG += r.FatsG
		summary.TotalFiberG += r.FiberG
	}
	return summary
}

// Weekly computes per-macro means over the window [weekStart, weekStart+7d).
// The most common food is decided by exact-name frequency; ties go to the
// food seen first in ascending time order.
func Weekly(records []models.NutritionRecord, weekStart time.Time) models.WeeklyStats {
	start := weekStart.UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 7)

	stats := models.WeeklyStats{
		StartDate: start.Format(dateLayout),
		EndDate:   end.AddDate(0, 0, -1).Format(dateLayout),
	}

	var filtered []models.NutritionRecord
	for _, r := range records {
		ts := r.CreatedAt.UTC()
		if !ts.Before(start) && ts.Before(end) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return stats
	}

	for _, r := range filtered {
		stats.AvgCalories += r.Calories
		stats.AvgProteinG += r.ProteinG
		stats.AvgCarbsG += r.CarbsG
		stats.AvgFatsG += r.FatsG
		stats.AvgFiberG += r.FiberG
	}
	n := float64(len(filtered))
	stats.TotalAnalyses = len(filtered)
	stats.AvgCalories /= n
	stats.AvgProteinG /= n
	stats.AvgCarbsG /= n
	stats.AvgFatsG /= n
	stats.AvgFiberG /= n

	if top := rankFoods(filtered, 1); len(top) > 0 {
		stats.MostCommonFood = top[0].FoodName
	}
	return stats
}

// AllTime summarizes a user's entire history. Average daily calories divides
// total calories by the number of distinct calendar days with at least one
// record; zero days yields zero. TopFoods holds at most three entries and is
// never padded.
func AllTime(records []models.NutritionRecord) models.AllTimeStats {
	stats := models.AllTimeStats{TotalAnalyses: len(records)}
	if len(records) == 0 {
		return stats
	}

	days := make(map[string]struct{})
	var totalCalories float64
	var first time.Time
	for _, r := range records {
		days[r.CreatedAt.UTC().Format(dateLayout)] = struct{}{}
		totalCalories += r.Calories
		stats.AvgCalories += r.Calories
		stats.AvgProteinG += r.ProteinG
		stats.AvgCarbsG += r.CarbsG
		stats.AvgFatsG += r.FatsG
		if first.IsZero() || r.CreatedAt.Before(first) {
			first = r.CreatedAt
		}
	}

	n := float64(len(records))
	stats.AvgCalories /= n
	stats.AvgProteinG /= n
	stats.AvgCarbsG /= n
	stats.AvgFatsG /= n

	stats.DaysTracked = len(days)
	if stats.DaysTracked > 0 {
		stats.AvgDailyCalories = totalCalories / float64(stats.DaysTracked)
	}
	firstUTC := first.UTC()
	stats.FirstAnalysis = &firstUTC
	stats.TopFoods = rankFoods(records, 3)
	return stats
}

// rankFoods returns up to limit foods ordered by descending frequency.
// Records are expected in ascending time order, so on equal counts the food
// encountered earlier wins.
func rankFoods(records []models.NutritionRecord, limit int) []models.FoodCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, seen := counts[r.FoodName]; !seen {
			order = append(order, r.FoodName)
		}
		counts[r.FoodName]++
	}

	// Selection over the first-encountered order keeps ties stable.
	ranked := make([]models.FoodCount, 0, limit)
	used := make(map[string]bool)
	for len(ranked) < limit && len(ranked) < len(order) {
		best := ""
		for _, name := range order {
			if used[name] {
				continue
			}
			if best == "" || counts[name] > counts[best] {
				best = name
			}
		}
		used[best] = true
		ranked = append(ranked, models.FoodCount{FoodName: best, Count: counts[best]})
	}
	return ranked
}
