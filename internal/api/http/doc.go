// Package http serves the gallery over HTTP: server-rendered pages for
// browsers and a JSON API over the same registry.
//
// Pages:
//   - GET  /                        gallery (q: search term, edit: product id)
//   - GET  /partials/gallery        cards fragment for live search
//   - POST /products                create (empty id) or update (set id)
//   - POST /products/:id/delete     delete one product
//   - POST /products/clear          clear all (confirm=yes)
//   - POST /products/demo           prepend a demo product
//   - POST /products/reload         refetch the catalog (confirm=yes replaces)
//   - POST /theme                   toggle or set the theme
//   - GET, POST /contact            contact form
//
// JSON API under /api mirrors the same operations.
package http
