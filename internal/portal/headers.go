package portal

import "net/http"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36"

// applyDefaultHeaders pins the browser-like header set the portal expects on
// every request. The origin/referer pair must name the portal frontend and the
// accept-language must be "id", or the upstream rejects the call outright.
// Accept-Encoding is deliberately left to the transport so response bodies
// arrive transparently decompressed.
func applyDefaultHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "id")
	req.Header.Set("Origin", "https://sirama.telkomuniversity.ac.id")
	req.Header.Set("Referer", "https://sirama.telkomuniversity.ac.id/")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
	req.Header.Set("User-Agent", defaultUserAgent)
}
