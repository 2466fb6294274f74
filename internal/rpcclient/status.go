package rpcclient

import (
	"context"
	"fmt"
	"time"
)

// MethodInfoGetStatus is the node status method.
const MethodInfoGetStatus = "info_get_status"

// NodeStatus is the subset of info_get_status the wallet uses.
type NodeStatus struct {
	APIVersion      string     `json:"api_version"`
	ChainspecName   string     `json:"chainspec_name"`
	BuildVersion    string     `json:"build_version"`
	LastProgress    *time.Time `json:"last_progress"`
	ReactorState    string     `json:"reactor_state"`
	Uptime          string     `json:"uptime"`
	StartingStateRH string     `json:"starting_state_root_hash"`
}

// Status fetches the node status.
func (c *Client) Status(ctx context.Context) (*NodeStatus, error) {
	var status NodeStatus
	if err := c.Call(ctx, MethodInfoGetStatus, nil, &status); err != nil {
		return nil, fmt.Errorf("%s: %w", MethodInfoGetStatus, err)
	}
	return &status, nil
}

// LastProgress returns the node's last_progress time, or nil when the
// node does not report one.
func (c *Client) LastProgress(ctx context.Context) (*time.Time, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	if status.LastProgress == nil || status.LastProgress.IsZero() {
		return nil, nil
	}
	t := status.LastProgress.UTC()
	return &t, nil
}
