// Package server wires the gallery service together.
//
// Server Lifecycle:
//  1. Build the logger, metrics registry and tracer
//  2. Open the key-value store (memory or SQLite)
//  3. Create the catalog client and the product registry
//  4. Initialize the registry from local data or the catalog
//  5. Connect registry events to metrics and the WebSocket hub
//  6. Set up middleware, templates and routes
//  7. Serve until the context is cancelled, then shut down gracefully
//
// Example Usage:
//
//	cfg, err := config.Load(path)
//	srv, err := server.New(ctx, cfg, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
