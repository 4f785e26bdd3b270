package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は株価プロバイダ呼び出し用のHTTPクライアントを作成します。
// http.DefaultClient にはタイムアウトがないため、外部APIには常にこちらを使います。
//
// timeout はリクエスト全体の上限です。接続確立とTLSハンドシェイクには別途短い上限を設けます。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		// 同一プロバイダへの接続を使い回す
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
