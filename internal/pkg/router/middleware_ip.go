package router

import (
	"net"
	"net/http"
	"strings"
)

// clientIPHeaders are consulted in order. The gateway usually sits behind
// the web client's dev proxy or an ingress that sets one of them.
var clientIPHeaders = [...]string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := clientIP(r); ip != "" {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	for _, name := range clientIPHeaders {
		v, _, _ := strings.Cut(r.Header.Get(name), ",")
		if v = strings.TrimSpace(v); net.ParseIP(v) != nil {
			return v
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return ""
}
