// Package aggregate fans one probe out per configured service, joins on
// all of them and classifies each outcome against the service's
// acceptable status codes. Output order always matches input order.
package aggregate
