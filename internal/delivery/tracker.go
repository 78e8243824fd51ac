package delivery

import (
	"sort"
	"time"

	"github.com/jobdeck/jobdeck/pkg/models"
)

// Summary buckets a delivery collection by current status. Buckets are
// strict: a hired delivery counts as hired only, never also as viewed.
type Summary struct {
	Total     int `json:"total"`
	Viewed    int `json:"viewed"`
	Interview int `json:"interview"`
	Hired     int `json:"hired"`
	Rejected  int `json:"rejected"`
}

// Summarize aggregates deliveries in a single pass. Every delivery counts
// once in Total; it lands in at most one status bucket, decided by current
// status equality rather than cumulative history.
func Summarize(deliveries []models.Delivery) Summary {
	s := Summary{Total: len(deliveries)}
	for _, d := range deliveries {
		switch Status(d.Status) {
		case StatusViewed:
			s.Viewed++
		case StatusInterview:
			s.Interview++
		case StatusHired:
			s.Hired++
		case StatusRejected:
			s.Rejected++
		}
	}
	return s
}

// DayBucket is one calendar day's delivery count.
type DayBucket struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// BucketByDay groups deliveries by the calendar day of their creation time in
// the given reporting timezone. The result is sorted ascending by date with
// no two entries sharing a date, and days with zero deliveries are omitted;
// callers needing a contiguous series fill gaps themselves.
func BucketByDay(deliveries []models.Delivery, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.UTC
	}

	counts := make(map[string]int)
	for _, d := range deliveries {
		day := time.Unix(d.Created, 0).In(loc).Format("2006-01-02")
		counts[day]++
	}

	out := make([]DayBucket, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayBucket{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return out
}

// FillDayGaps expands buckets into a contiguous daily series from the first
// to the last bucket, inserting zero counts for missing days.
func FillDayGaps(buckets []DayBucket) []DayBucket {
	if len(buckets) < 2 {
		return buckets
	}

	first, err := time.Parse("2006-01-02", buckets[0].Date)
	if err != nil {
		return buckets
	}
	last, err := time.Parse("2006-01-02", buckets[len(buckets)-1].Date)
	if err != nil {
		return buckets
	}

	byDate := make(map[string]int, len(buckets))
	for _, b := range buckets {
		byDate[b.Date] = b.Count
	}

	var out []DayBucket
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		out = append(out, DayBucket{Date: key, Count: byDate[key]})
	}

	return out
}
