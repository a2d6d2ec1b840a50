// Package pricedata は正規化済み価格データに対する純粋関数
// （検証・重複排除・整列）を提供します。副作用はありません。
package pricedata

import (
	"fmt"

	"marketdash/internal/feature/prices/domain/entity"
)

// ValidationResult はバッチ検証の結果です。
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate は各レコードを独立に検証し、違反をすべて集めて返します。
// 最初の違反で打ち切らないため、1バッチ内の全違反が一度に報告されます。
func Validate(records []entity.PriceRecord) ValidationResult {
	var errs []string
	for i, r := range records {
		if r.Date.IsZero() {
			errs = append(errs, fmt.Sprintf("record %d: date is missing", i))
		}
		if r.Close == nil {
			errs = append(errs, fmt.Sprintf("record %d: close is missing", i))
		} else if *r.Close < 0 {
			errs = append(errs, fmt.Sprintf("record %d: close is negative", i))
		}
		if r.Open != nil && *r.Open < 0 {
			errs = append(errs, fmt.Sprintf("record %d: open is negative", i))
		}
		if r.High != nil && *r.High < 0 {
			errs = append(errs, fmt.Sprintf("record %d: high is negative", i))
		}
		if r.Low != nil && *r.Low < 0 {
			errs = append(errs, fmt.Sprintf("record %d: low is negative", i))
		}
		if r.Volume != nil && *r.Volume < 0 {
			errs = append(errs, fmt.Sprintf("record %d: volume is negative", i))
		}
		if r.High != nil && r.Low != nil && *r.High < *r.Low {
			errs = append(errs, fmt.Sprintf("record %d: high is lower than low", i))
		}
		if r.Open != nil && r.High != nil && *r.Open > *r.High {
			errs = append(errs, fmt.Sprintf("record %d: open is above high", i))
		}
		if r.Open != nil && r.Low != nil && *r.Open < *r.Low {
			errs = append(errs, fmt.Sprintf("record %d: open is below low", i))
		}
		if r.Close != nil && r.High != nil && *r.Close > *r.High {
			errs = append(errs, fmt.Sprintf("record %d: close is above high", i))
		}
		if r.Close != nil && r.Low != nil && *r.Close < *r.Low {
			errs = append(errs, fmt.Sprintf("record %d: close is below low", i))
		}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
