package usecase

import (
	"errors"
	"fmt"
	"strings"
)

// 取り込みパイプラインのユースケースレベルエラー。
var (
	// ErrNoProvider は対象カテゴリに対応するプロバイダーが1つも
	// 登録されていないことを示します。
	ErrNoProvider = errors.New("no provider available for category")
)

// InvalidBatchError はOHLC不変条件に違反したバッチを表します。
// このエラーが返ったバッチは永続化されていません。
type InvalidBatchError struct {
	Violations []string
}

func (e *InvalidBatchError) Error() string {
	return fmt.Sprintf("price data failed validation: %s", strings.Join(e.Violations, "; "))
}
