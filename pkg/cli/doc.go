// Package cli provides the command-line interface for ewsparse.
//
// Commands:
//   - decode: Decode EWS responses with the extraction rule of an operation
//   - status: Show the response status and SOAP fault of EWS responses
//   - operations: List supported operations and their extraction rules
//   - version: Show ewsparse version
//
// Inputs are file paths, doublestar patterns ("captures/**/*.xml") or "-"
// for standard input. Output is JSON or YAML.
//
// Configuration is read from --config (YAML, TOML or JSON), then
// EWSPARSE_* environment variables, then flags.
//
// Usage:
//
//	ewsparse decode --op GetItem response.xml
//	ewsparse decode --op GetEvents --where 'kind != "status_event"' events.xml
//	ewsparse decode --op FindItem --query '$[1:].message.subject.text' finditem.xml
//	ewsparse status --format yaml 'captures/**/*.xml'
//	ewsparse operations
package cli
