package demographics

import (
	"sort"
	"time"
)

const monthLabelLayout = "Jan 2006"

// signupSeries buckets the filtered set into calendar months (UTC) and
// returns them in chronological order. The sort runs on a numeric year*100+
// month key; labels are presentation only and are never parsed back.
func (e *Engine) signupSeries(records []UserRecord) []MonthPoint {
	counts := map[int]int{}
	for _, rec := range records {
		at := rec.CreatedAt.UTC()
		counts[at.Year()*100+int(at.Month())]++
	}

	keys := make([]int, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	out := make([]MonthPoint, 0, len(keys))
	for _, key := range keys {
		month := time.Date(key/100, time.Month(key%100), 1, 0, 0, 0, 0, time.UTC)
		out = append(out, MonthPoint{
			Label: month.Format(monthLabelLayout),
			Count: counts[key],
		})
	}
	return out
}
