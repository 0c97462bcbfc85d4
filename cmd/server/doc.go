// Command server runs the product gallery service.
//
// Usage:
//
//	server [serve] [--config gallery.yaml]
//	server config [--config gallery.yaml]
//	server version
//
// Configuration is read from defaults, then the optional YAML or TOML
// file, then GALLERY_* environment variables.
package main
