// Package util provides small shared helpers used across ewsparse packages.
//
//   - TruncateBody caps response bodies for safe logging
package util
