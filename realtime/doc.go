// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime implements the WebSocket fan-out layer.

# Hub

The Hub is an explicit connection registry: viewers join via ServeWS,
leave when their socket closes, and receive every poll update in between.
No per-poll subscriptions, no presence state, no replay.

	hub := realtime.NewHub(realtime.DefaultConfig())
	go hub.Start(ctx)
	mux.HandleFunc("GET /ws", hub.ServeWS)

# Broadcasting

After a successful vote the handler pushes the updated poll:

	hub.BroadcastPollUpdated(poll)

The payload is the JSON envelope

	{"event": "pollUpdated", "data": {...full poll...}}

Delivery is best-effort: the broadcast channel and each connection's send
channel are bounded, a viewer that cannot keep up is evicted, and a failed
send never propagates to the voter's HTTP response.

# Connection Lifecycle

Each connection runs a write pump (serializes writes, sends pings every
30s) and a read pump (processes pongs, notices disconnects). Read and
write deadlines are refreshed on activity; a silent connection times out
after 60s.
*/
package realtime
