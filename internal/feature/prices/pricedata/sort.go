package pricedata

import (
	"sort"
	"time"

	"marketdash/internal/feature/prices/domain/entity"
)

// SortOrder は整列方向です。
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortByDate は日付順に並べ替えた新しいスライスを返します。入力は変更しません。
func SortByDate(data []entity.PriceRecord, order SortOrder) []entity.PriceRecord {
	out := make([]entity.PriceRecord, len(data))
	copy(out, data)
	sort.SliceStable(out, func(i, j int) bool {
		if order == SortDesc {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// FilterByDateRange は指定期間内のレコードだけを返します。
// start/endのゼロ値は「制限なし」を意味します。
func FilterByDateRange(data []entity.PriceRecord, start, end time.Time) []entity.PriceRecord {
	if start.IsZero() && end.IsZero() {
		return data
	}
	out := make([]entity.PriceRecord, 0, len(data))
	for _, r := range data {
		if !start.IsZero() && r.Date.Before(start) {
			continue
		}
		if !end.IsZero() && r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}
