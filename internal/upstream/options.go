package upstream

import (
	"net/http"
	"time"
)

// Options configures one adapter. Zero fields fall back to adapter defaults,
// so construction from a partially filled config is safe.
type Options struct {
	BaseURL string

	// Per-call timeouts. Listing endpoints are cheap; episode resolution on
	// the fallback API walks upstream CDNs and can take more than a minute.
	ListTimeout    time.Duration
	DetailTimeout  time.Duration
	EpisodeTimeout time.Duration
	ProbeTimeout   time.Duration

	// Rating overrides the adapter's synthesized-rating source. Tests pin
	// this to a constant to make normalization deterministic.
	Rating RatingSource

	// Client overrides the HTTP client. Timeouts are applied per call via
	// context, not on the client itself.
	Client *http.Client
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{}
}
