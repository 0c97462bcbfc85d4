// Package ws pushes product changes to open gallery pages over WebSocket.
//
// Every registry event is broadcast to all connected clients, which
// refresh their card grid in response. Sends never block the registry:
// a client whose buffer is full misses the message.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: Welcome message carrying the client id
//   - products: A registry change (event, id, count)
//   - pong: Reply to ping
//   - error: Unknown message type
//
// Example Usage:
//
//	hub := ws.NewHub(metrics, logger)
//	unsubscribe := reg.Subscribe(hub.Publish)
//	router.GET("/stream", hub.HandleConnection)
package ws
