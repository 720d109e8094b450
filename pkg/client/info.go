package client

import (
	"context"

	"github.com/tokengate/tokengate/internal/api"
	"github.com/tokengate/tokengate/internal/buildinfo"
)

func (c *Client) Info(ctx context.Context) (*buildinfo.Info, string, error) {
	var info buildinfo.Info
	correlation, err := c.get(ctx, c.url().
		setPath(api.InfoRoute).
		build(), &info)
	return &info, correlation, err
}
