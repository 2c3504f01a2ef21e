// Package bookclient provides access to the books catalog REST API and a
// small state container mirroring what a form-and-list front-end holds:
// the authoritative list of books, the draft being edited, a pending flag
// and the last failure message.
package bookclient
