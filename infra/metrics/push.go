package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the metrics gathered by g to a Prometheus pushgateway under the
// given job name. A nil gatherer pushes the default registry and a nil client
// uses http.DefaultClient.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer, client push.HTTPDoer) error {
	if url == "" {
		return nil
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	p := push.New(url, job).Gatherer(g)
	if client != nil {
		p = p.Client(client)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
