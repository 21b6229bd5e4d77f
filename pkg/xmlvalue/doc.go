// Package xmlvalue converts XML element trees into generic nested maps.
//
// It is the format-neutral representation handed to callers of the ews
// package: every extraction rule converts the elements it locates with
// Convert and returns the resulting Values.
package xmlvalue
