package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// trackingParams are query parameters that never change the linked document
var trackingParams = map[string]bool{
	"fbclid": true, "gclid": true, "dclid": true, "msclkid": true, "mc_cid": true, "mc_eid": true,
	"yclid": true, "igshid": true, "ref": true, "ref_src": true, "cmpid": true, "mod": true,
	"siteid": true, "src": true, "partnerid": true, "__source": true, "guccounter": true,
}

// CanonicalURL builds the dedup identity key of an article link. Two links pointing to the
// same document through different tracking params, fragments, host case or default ports give
// the same key.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", raw)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "http" {
		scheme = "https" // feeds mix both for the same article
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if port := u.Port(); port != "" && port != "80" && port != "443" {
		host += ":" + port
	}

	path := u.EscapedPath()
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "/" {
		path = ""
	}

	query := u.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(scheme)
	sb.WriteString("://")
	sb.WriteString(host)
	sb.WriteString(path)
	for i, k := range keys {
		vals := query[k]
		sort.Strings(vals)
		for j, v := range vals {
			if i == 0 && j == 0 {
				sb.WriteByte('?')
			} else {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(k))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(v))
		}
	}
	return sb.String(), nil
}
