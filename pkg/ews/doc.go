// Package ews decodes Exchange Web Services SOAP responses into generic
// values that callers can use without knowing the EWS schema.
//
// # Basic Usage
//
// Decode a raw response body for a known operation:
//
//	parser := ews.NewParser(ews.WithLogger(logger))
//
//	resp, err := parser.ParseBytes(ctx, ews.OpGetItem, body)
//	if err != nil {
//	    var perr *ews.ProtocolError
//	    if errors.As(err, &perr) {
//	        log.Printf("server said %s: %s", perr.Code, perr.Message)
//	    }
//	    return err
//	}
//	for _, item := range resp.Items.List {
//	    name, fields := item.Root() // "message", {...}
//	}
//
// When the transport layer has already parsed the document and status, call
// Parse directly.
//
// # Response Shapes
//
// Every operation is decoded by one Rule from the Registry:
//
//   - single value (GetUserOofSettings, GetUserAvailability): Items.Value
//   - list (GetItem, GetFolder, ...): Items.List in document order
//   - metadata list (FindItem, GetEvents, SyncFolderItems): Items.List[0] is
//     a synthetic record such as {"sync_state", "includes_last_item_in_range"}
//     followed by one record per element
//   - merge-join (ResolveNames): mailbox and contact merged per resolution
//
// # Errors
//
// Gated rules check the response status first:
//
//   - *ProtocolError carries ResponseCode and MessageText verbatim
//   - *SubscriptionExpiredError is returned by GetEvents only; resubscribe
//   - Unsubscribe never fails; inspect Response.Status
//
// Ungated rules treat missing elements as an empty result.
//
// # Namespaces
//
// Paths are written with the prefixes of a Namespaces table ("m", "t",
// "soap", "soap12") and matched by namespace URI, so responses using other
// prefixes or default namespaces decode the same way.
package ews
