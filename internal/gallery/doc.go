// Package gallery turns the product list and a search term into the view
// the HTML handlers render. Render is pure: it never touches the registry
// and can be called with any slice.
//
// Templates are embedded and parsed once by Templates:
//   - index.html: full gallery page with form, search and controls
//   - contact.html: contact page
//   - cards.html: the "cards" fragment used for live search refreshes
package gallery
