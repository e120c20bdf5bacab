// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/MaplrCanada/ss-petitions/models"
)

// Watch listens on the push channel, refreshes the snapshot on every event,
// and then calls onEvent. It returns when ctx is done or the connection
// drops; reconnecting is up to the caller.
func (c *Client) Watch(ctx context.Context, onEvent func(models.Event, models.Snapshot)) error {
	url := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return &TransportError{Op: "watch", Err: err}
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var e models.Event
		if err := conn.ReadJSON(&e); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &TransportError{Op: "watch", Err: err}
		}

		snap, err := c.Snapshot(ctx)
		if err != nil {
			return err
		}
		if onEvent != nil {
			onEvent(e, snap)
		}
	}
}
