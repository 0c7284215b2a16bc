package app

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"myreplays/internal/domain"
)

// NewHTTPClient builds the client used for fetching resources, carrying the
// restored session cookies when a session is present. Redirects are followed
// by default. headerTimeout bounds connecting and waiting for the response
// headers only; once headers arrive the body may stream for as long as it
// needs, so large files are never cut off mid-transfer.
func NewHTTPClient(session *domain.SessionState, headerTimeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if session != nil {
		byHost := map[string][]*http.Cookie{}
		for _, c := range session.Cookies {
			hc := &http.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Domain:   c.Domain,
				Secure:   c.Secure,
				HttpOnly: c.HTTPOnly,
			}
			if c.Expires > 0 {
				hc.Expires = time.Unix(int64(c.Expires), 0)
			}
			host := strings.TrimPrefix(c.Domain, ".")
			byHost[host] = append(byHost[host], hc)
		}
		for host, cookies := range byHost {
			u := &url.URL{Scheme: "https", Host: host, Path: "/"}
			jar.SetCookies(u, cookies)
		}
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: headerTimeout}).DialContext,
		TLSHandshakeTimeout:   headerTimeout,
		ResponseHeaderTimeout: headerTimeout,
	}
	return &http.Client{Jar: jar, Transport: transport}, nil
}
