package surface

import (
	"log"
	"net/url"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// PageReplayer serves captured portal pages to a hijacked browser, so
// Rod surface tests run against the real login form markup without
// touching the portal. Capture pages with scripts/capture-portal.
type PageReplayer struct {
	// pages maps scheme://host/path (query stripped) to a fixture.
	pages   map[string]PageFixture
	verbose bool
}

// PageFixture is one captured page.
type PageFixture struct {
	ContentType string
	Body        []byte
}

// ReplayerOption configures a PageReplayer.
type ReplayerOption func(*PageReplayer)

// WithReplayVerbose logs request matching.
func WithReplayVerbose(enabled bool) ReplayerOption {
	return func(r *PageReplayer) { r.verbose = enabled }
}

// NewPageReplayer builds an empty replayer; register pages with AddPage.
func NewPageReplayer(opts ...ReplayerOption) *PageReplayer {
	r := &PageReplayer{pages: make(map[string]PageFixture)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddPage registers a fixture for every request whose URL matches rawURL
// up to the query string.
func (r *PageReplayer) AddPage(rawURL string, fixture PageFixture) {
	r.pages[pathKey(rawURL)] = fixture
}

// Middleware returns a Rod hijack handler serving registered fixtures.
// Use with WithHijacker(replayer.Middleware()). Unmatched requests get an
// empty 204 so page-side resource loads (favicons, scripts the fixture
// references) cannot stall a test on the network.
func (r *PageReplayer) Middleware() func(*rod.Hijack) {
	return func(ctx *rod.Hijack) {
		reqURL := ctx.Request.URL().String()
		fixture, found := r.pages[pathKey(reqURL)]

		payload := ctx.Response.Payload()
		if !found {
			if r.verbose {
				log.Printf("[replayer] no fixture for: %s", reqURL)
			}
			payload.ResponseCode = 204
			return
		}

		if r.verbose {
			log.Printf("[replayer] serving fixture: %s", reqURL)
		}
		payload.ResponseCode = 200
		payload.ResponseHeaders = []*proto.FetchHeaderEntry{
			{Name: "Content-Type", Value: fixture.ContentType},
		}
		payload.Body = fixture.Body
	}
}

// pathKey normalizes a URL to scheme://host/path so session query
// parameters do not defeat matching.
func pathKey(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.Scheme + "://" + parsed.Host + parsed.Path
}
