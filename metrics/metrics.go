// Package metrics exposes the site's Prometheus instrumentation: CMS round
// trips, form submissions and aggregate, cookie-less visitor counts.
//
// Components take narrow interfaces (wordpress.Recorder and friends) and
// receive a *Recorder at wiring time; a nil *Recorder is valid and records
// nothing.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coresite"

// Form outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeUpstream    = "upstream_error"
)

// Recorder implements the recording hooks on top of Prometheus collectors.
type Recorder struct {
	fetchDuration *prom.HistogramVec
	fetchResults  *prom.CounterVec
	forms         *prom.CounterVec
	pageViews     *prom.CounterVec
	botVisits     *prom.CounterVec
	referrals     *prom.CounterVec
}

// NewRecorder constructs the collectors and registers them, plus the Go and
// process collectors, on reg. A nil reg gets a fresh registry.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{}
	r.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "cms_fetch_duration_seconds",
		Help:      "Duration of CMS GraphQL round trips",
		Buckets:   prom.DefBuckets,
	}, []string{"operation"})
	r.fetchResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "cms_fetch_total",
		Help:      "CMS GraphQL round trips by operation and outcome",
	}, []string{"operation", "outcome"})
	r.forms = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "form_submissions_total",
		Help:      "Form submissions by form and outcome",
	}, []string{"form", "outcome"})
	r.pageViews = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "page_views_total",
		Help:      "Human page views by route, device and browser",
	}, []string{"route", "device", "browser"})
	r.botVisits = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "bot_visits_total",
		Help:      "Crawler page views by bot",
	}, []string{"bot"})
	r.referrals = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "referrals_total",
		Help:      "Human page views by referring site",
	}, []string{"referrer"})
	reg.MustRegister(r.fetchDuration, r.fetchResults, r.forms, r.pageViews, r.botVisits, r.referrals)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return r
}

// ObserveFetch records one CMS round trip.
func (r *Recorder) ObserveFetch(operation, outcome string, elapsed time.Duration) {
	if r == nil || r.fetchResults == nil {
		return
	}
	r.fetchDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	r.fetchResults.WithLabelValues(operation, outcome).Inc()
}

// IncForm counts a form submission.
func (r *Recorder) IncForm(form, outcome string) {
	if r == nil || r.forms == nil {
		return
	}
	r.forms.WithLabelValues(form, outcome).Inc()
}

// ObserveVisit counts a page view, split into bot and human traffic.
func (r *Recorder) ObserveVisit(route, userAgent, referrer string) {
	if r == nil || r.pageViews == nil {
		return
	}
	if IsBot(userAgent) {
		r.botVisits.WithLabelValues(BotName(userAgent)).Inc()
		return
	}
	ua := ParseUserAgent(userAgent)
	r.pageViews.WithLabelValues(route, ua.Device, ua.Browser).Inc()
	r.referrals.WithLabelValues(CleanReferrer(referrer)).Inc()
}

// HTTPHandler serves the metrics gathered by reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
