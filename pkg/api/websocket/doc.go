// Package websocket streams catalog change events to connected clients.
package websocket
