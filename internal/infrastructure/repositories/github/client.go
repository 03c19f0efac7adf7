package github

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	retryMax = 3
	// a single token bucket slot keeps requests evenly spaced
	rateBurst = 1
)

// rateLimitedTransport blocks each request until the limiter grants it.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// retryLogger adapts a logrus logger to retryablehttp.LeveledLogger.
type retryLogger struct {
	log logger.FieldLogger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Error(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Warn(msg)
}

func toFields(keysAndValues []interface{}) logger.Fields {
	fields := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

// newHTTPClient builds the client stack used for every GitHub call:
// retries on top of token authentication on top of request rate limiting.
func newHTTPClient(token string, requestsPerSecond float64, log logger.FieldLogger) *http.Client {
	limited := &rateLimitedTransport{
		base:    http.DefaultTransport,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), rateBurst),
	}

	var authenticated http.RoundTripper = limited
	if token != "" {
		authenticated = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   limited,
		}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Transport: authenticated}
	retryClient.RetryMax = retryMax
	retryClient.Logger = retryLogger{log: log}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return retryClient.StandardClient()
}

// parseAPIURL parses the REST API base URL, which go-github requires to end
// with a slash.
func parseAPIURL(apiURL string) (*url.URL, error) {
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	return url.Parse(apiURL)
}
