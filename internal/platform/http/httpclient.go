// Package http は外部マーケットデータAPI呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient はプロバイダーアダプター共通のHTTPクライアントを作成します。
//
// マーケットデータAPIは複数プロバイダーへ問い合わせるため、コネクションプールを
// 広めに取り、各段階のタイムアウトを明示します。プロバイダーが落ちている場合に
// フォールバックへ素早く移れるよう、TCP接続は全体タイムアウトより短く切ります。
// http.DefaultClientはタイムアウトを持たないため使用しません。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
