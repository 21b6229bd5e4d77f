package ews

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Operation identifies the EWS operation whose response is being decoded.
type Operation int

// Supported operations.
const (
	OpUnknown Operation = iota
	OpResolveNames
	OpGetFolder
	OpFindFolder
	OpCreateFolder
	OpDeleteFolder
	OpGetEvents
	OpFindItem
	OpSubscribe
	OpUnsubscribe
	OpGetItem
	OpCopyItem
	OpMoveItem
	OpCreateItem
	OpUpdateItem
	OpSendItem
	OpGetAttachment
	OpCreateAttachment
	OpSyncFolderItems
	OpGetUserOofSettings
	OpGetUserAvailability
)

var operationNames = map[Operation]string{
	OpResolveNames:        "ResolveNames",
	OpGetFolder:           "GetFolder",
	OpFindFolder:          "FindFolder",
	OpCreateFolder:        "CreateFolder",
	OpDeleteFolder:        "DeleteFolder",
	OpGetEvents:           "GetEvents",
	OpFindItem:            "FindItem",
	OpSubscribe:           "Subscribe",
	OpUnsubscribe:         "Unsubscribe",
	OpGetItem:             "GetItem",
	OpCopyItem:            "CopyItem",
	OpMoveItem:            "MoveItem",
	OpCreateItem:          "CreateItem",
	OpUpdateItem:          "UpdateItem",
	OpSendItem:            "SendItem",
	OpGetAttachment:       "GetAttachment",
	OpCreateAttachment:    "CreateAttachment",
	OpSyncFolderItems:     "SyncFolderItems",
	OpGetUserOofSettings:  "GetUserOofSettings",
	OpGetUserAvailability: "GetUserAvailability",
}

// operationsByKey indexes operations by lowercased name without separators.
var operationsByKey = lo.MapEntries(operationNames, func(op Operation, name string) (string, Operation) {
	return normalizeOperationName(name), op
})

// String returns the EWS operation name, e.g. "GetItem".
func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Operations returns every supported operation in declaration order.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operationNames))
	for op := OpResolveNames; op <= OpGetUserAvailability; op++ {
		ops = append(ops, op)
	}
	return ops
}

// ParseOperation resolves an operation from its EWS name. The SOAP response
// element name ("GetItemResponse") and snake case ("get_item_response") are
// accepted as well.
func ParseOperation(name string) (Operation, error) {
	if op, ok := operationsByKey[normalizeOperationName(name)]; ok {
		return op, nil
	}
	return OpUnknown, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

func normalizeOperationName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	return strings.TrimSuffix(key, "response")
}
