package cache

import (
	"time"
)

// TimeUntilNextMidnightUTC は次のUTC深夜0時までの期間を返します。
// 日次価格データはUTC日付で区切られるため、キャッシュTTLの上限に使います。
func TimeUntilNextMidnightUTC() time.Duration {
	now := time.Now().UTC()

	// 次の深夜0時を計算
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)

	return midnight.Sub(now)
}
