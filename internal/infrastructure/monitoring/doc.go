/*
Package monitoring collects Prometheus metrics for the gallery service.

# Metrics

  - HTTP requests: count, latency and response size per route
  - Registry: product count and operation outcomes
  - Catalog: fetch outcomes, latency and item counts
  - WebSocket: open connections and pushed messages
  - Uptime

Metrics register on the Registerer passed to NewMetrics so tests can use
an isolated prometheus.Registry.

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	timer := monitoring.NewTimer(metrics, "create")
	// ... perform operation ...
	timer.Stop("success")
*/
package monitoring
