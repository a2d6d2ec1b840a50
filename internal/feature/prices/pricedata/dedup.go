package pricedata

import (
	"time"

	"marketdash/internal/feature/prices/domain/entity"
)

// FilterNonDuplicate は保存済みの日付と重複しないレコードだけを返します。
// 比較は暦日のみ（UTC）で行い、時刻部分は無視します。
// newDataが空なら空スライス、existingが空ならnewDataの内容をそのまま返します。
func FilterNonDuplicate(newData []entity.PriceRecord, existing []time.Time) []entity.PriceRecord {
	if len(newData) == 0 {
		return []entity.PriceRecord{}
	}

	seen := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		seen[d.UTC().Format("2006-01-02")] = struct{}{}
	}

	out := make([]entity.PriceRecord, 0, len(newData))
	for _, r := range newData {
		if _, ok := seen[r.DateKey()]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}
