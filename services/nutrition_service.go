// services/nutrition_service.go
//
// Pure nutrition aggregation over meal entries with resolved foods. Food
// nutrients are stored per 100 g, so each entry contributes
// quantity/100 * nutrient. No I/O, no shared state; safe to call from any
// number of concurrent requests.
package services

import (
	"errors"
	"time"

	"github.com/mihir-M-marathe/CalTrail/models"
)

var (
	ErrInvalidQuantity = errors.New("meal entry quantity must be positive")
	ErrUnresolvedFood  = errors.New("meal entry has no resolved food")
)

type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

func (t *NutrientTotals) accumulate(f *models.Food, multiplier float64) {
	t.Calories += f.Calories * multiplier
	t.Protein += f.Protein * multiplier
	t.Fat += f.Fat * multiplier
	t.Carbs += f.Carbs * multiplier
	t.Fiber += f.Fiber * multiplier
	t.Sugar += f.Sugar * multiplier
	t.Sodium += f.Sodium * multiplier
}

type MealTypeSummary struct {
	MealsByType  map[string][]models.MealEntry `json:"mealsByType"`
	Totals       NutrientTotals                `json:"totals"`
	TotalEntries int                           `json:"totalEntries"`
}

type DailySummary struct {
	Totals       NutrientTotals `json:"totals"`
	TotalEntries int            `json:"totalEntries"`
}

type DayTotals struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Entries  int     `json:"entries"`
}

type WeeklyTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Entries  int     `json:"entries"`
}

type WeeklyAverages struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

type WeeklySummary struct {
	WeekStart      string         `json:"weekStart"`
	WeekEnd        string         `json:"weekEnd"`
	DailyData      []DayTotals    `json:"dailyData"`
	WeeklyTotals   WeeklyTotals   `json:"weeklyTotals"`
	WeeklyAverages WeeklyAverages `json:"weeklyAverages"`
	TotalEntries   int            `json:"totalEntries"`
}

// checkEntry rejects the two inputs the engine refuses to degrade: callers
// must not pass non-positive quantities or entries whose food was never
// resolved. Missing nutrient fields, by contrast, simply contribute zero.
func checkEntry(e *models.MealEntry) error {
	if e.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if e.Food.ID == 0 {
		return ErrUnresolvedFood
	}
	return nil
}

// AggregateByType partitions entries into breakfast/lunch/dinner/snack/other.
// All five buckets are always present; an unset or unrecognized meal type
// lands in "other". The top-level totals cover the full input set.
func AggregateByType(entries []models.MealEntry) (*MealTypeSummary, error) {
	out := &MealTypeSummary{
		MealsByType: map[string][]models.MealEntry{
			models.MealTypeBreakfast: {},
			models.MealTypeLunch:     {},
			models.MealTypeDinner:    {},
			models.MealTypeSnack:     {},
			models.MealTypeOther:     {},
		},
	}
	for i := range entries {
		e := &entries[i]
		if err := checkEntry(e); err != nil {
			return nil, err
		}
		bucket := e.MealType
		if _, known := out.MealsByType[bucket]; !known {
			bucket = models.MealTypeOther
		}
		out.MealsByType[bucket] = append(out.MealsByType[bucket], *e)
		out.Totals.accumulate(&e.Food, e.Quantity/100)
	}
	out.TotalEntries = len(entries)
	return out, nil
}

// AggregateDaily reduces a day's worth of entries into a single totals row.
// The caller is responsible for the start/end-of-day boundary filtering.
func AggregateDaily(entries []models.MealEntry) (*DailySummary, error) {
	out := &DailySummary{}
	for i := range entries {
		e := &entries[i]
		if err := checkEntry(e); err != nil {
			return nil, err
		}
		out.Totals.accumulate(&e.Food, e.Quantity/100)
	}
	out.TotalEntries = len(entries)
	return out, nil
}

// AggregateWeekly buckets entries into the Sunday-to-Saturday week containing
// ref. The result always has exactly 7 day buckets, zero-seeded, so days
// without entries still appear and still count toward the averages: the
// average denominator is the fixed period length, never the number of days
// with data.
func AggregateWeekly(entries []models.MealEntry, ref time.Time) (*WeeklySummary, error) {
	weekStart := WeekStartOf(ref)
	weekEnd := weekStart.AddDate(0, 0, 6)

	days := make([]DayTotals, 7)
	idx := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		key := weekStart.AddDate(0, 0, i).Format("2006-01-02")
		days[i] = DayTotals{Date: key}
		idx[key] = i
	}

	out := &WeeklySummary{
		WeekStart: weekStart.Format("2006-01-02"),
		WeekEnd:   weekEnd.Format("2006-01-02"),
	}
	for i := range entries {
		e := &entries[i]
		if err := checkEntry(e); err != nil {
			return nil, err
		}
		// Bucket by calendar date, not timestamp equality.
		key := e.Date.In(weekStart.Location()).Format("2006-01-02")
		di, ok := idx[key]
		if !ok {
			continue // outside the week window
		}
		m := e.Quantity / 100
		days[di].Calories += e.Food.Calories * m
		days[di].Protein += e.Food.Protein * m
		days[di].Fat += e.Food.Fat * m
		days[di].Carbs += e.Food.Carbs * m
		days[di].Entries++
	}

	for _, d := range days {
		out.WeeklyTotals.Calories += d.Calories
		out.WeeklyTotals.Protein += d.Protein
		out.WeeklyTotals.Fat += d.Fat
		out.WeeklyTotals.Carbs += d.Carbs
		out.WeeklyTotals.Entries += d.Entries
	}
	out.WeeklyAverages = WeeklyAverages{
		Calories: out.WeeklyTotals.Calories / 7,
		Protein:  out.WeeklyTotals.Protein / 7,
		Fat:      out.WeeklyTotals.Fat / 7,
		Carbs:    out.WeeklyTotals.Carbs / 7,
	}
	out.DailyData = days
	out.TotalEntries = out.WeeklyTotals.Entries
	return out, nil
}

// WeekStartOf returns the most recent Sunday at 00:00:00 on or before t.
func WeekStartOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
