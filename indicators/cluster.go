package indicators

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/healthgate/health"
	"github.com/jonwraymond/healthgate/resilience"
)

// Cluster health states.
const (
	ClusterHealthy  = "HEALTHY"
	ClusterDegraded = "DEGRADED"
	ClusterFailed   = "FAILED"
)

// LivenessPath is probed on every peer.
const LivenessPath = "/health/live"

// Peer is a cluster member probed by the cluster indicator.
type Peer struct {
	// Name identifies the node in the report.
	Name string

	// URL is the node's base URL, e.g. http://node-1:8080.
	URL string
}

// ClusterConfig configures the cluster indicator.
type ClusterConfig struct {
	// Name is the indicator name.
	// Default: "cluster"
	Name string

	// ClusterName is reported as the clusterName attribute.
	ClusterName string

	// Peers are the nodes to probe. No peers makes the indicator inapplicable.
	Peers []Peer

	// Concurrency bounds the number of simultaneous probes.
	// Default: 8
	Concurrency int

	// HTTPClient is used for probes.
	// Default: a client with a 2s timeout.
	HTTPClient *http.Client

	// Breakers, when set, skips peers whose recent probes kept failing.
	// Skipped peers are reported DOWN with a "circuit open" message.
	Breakers *resilience.BreakerSet
}

// NodeDetail reports the outcome of probing one peer.
type NodeDetail struct {
	NodeName     string `json:"nodeName"`
	HealthStatus string `json:"healthStatus"`
	Message      string `json:"message,omitempty"`
}

// Cluster reports whether the peers of a cluster are reachable.
//
// All peers reachable is HEALTHY and up. Some reachable is DEGRADED and
// down. None reachable is FAILED and down.
type Cluster struct {
	config ClusterConfig
}

// NewCluster creates a cluster indicator.
func NewCluster(config ClusterConfig) *Cluster {
	if config.Name == "" {
		config.Name = "cluster"
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 2 * time.Second}
	}
	return &Cluster{config: config}
}

// Name returns the configured indicator name.
func (c *Cluster) Name() string {
	return c.config.Name
}

// IsApplicable reports whether any peer is configured.
func (c *Cluster) IsApplicable(context.Context) (bool, error) {
	return len(c.config.Peers) > 0, nil
}

// Check probes every peer's liveness endpoint.
func (c *Cluster) Check(ctx context.Context) (health.Status, error) {
	details := make([]NodeDetail, len(c.config.Peers))

	var g errgroup.Group
	g.SetLimit(c.config.Concurrency)
	for i, peer := range c.config.Peers {
		g.Go(func() error {
			details[i] = c.probe(ctx, peer)
			return nil
		})
	}
	_ = g.Wait()

	nodeNames := make([]string, 0, len(details))
	for _, d := range details {
		if d.HealthStatus == "UP" {
			nodeNames = append(nodeNames, d.NodeName)
		}
	}

	state := ClusterHealthy
	switch {
	case len(nodeNames) == 0:
		state = ClusterFailed
	case len(nodeNames) < len(details):
		state = ClusterDegraded
	}

	status := health.Down(c.Name())
	if state == ClusterHealthy {
		status = health.Up(c.Name())
	}
	return status.
		With("clusterName", c.config.ClusterName).
		With("healthStatus", state).
		With("numberOfNodes", len(nodeNames)).
		With("nodeNames", nodeNames).
		With("nodeDetails", details), nil
}

func (c *Cluster) probe(ctx context.Context, peer Peer) NodeDetail {
	detail := NodeDetail{NodeName: peer.Name, HealthStatus: "DOWN"}
	if detail.NodeName == "" {
		detail.NodeName = peer.URL
	}

	var err error
	if c.config.Breakers != nil {
		err = c.config.Breakers.Get(detail.NodeName).Execute(ctx, func(ctx context.Context) error {
			return c.live(ctx, peer.URL)
		})
	} else {
		err = c.live(ctx, peer.URL)
	}

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		detail.Message = "circuit open"
	case err != nil:
		detail.Message = err.Error()
	default:
		detail.HealthStatus = "UP"
	}
	return detail
}

func (c *Cluster) live(ctx context.Context, baseURL string) error {
	url := strings.TrimRight(baseURL, "/") + LivenessPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

var _ health.Indicator = (*Cluster)(nil)
