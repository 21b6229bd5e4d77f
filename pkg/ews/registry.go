package ews

import (
	"maps"
	"slices"
)

// Registry maps operations to their extraction rules. It is not modified
// after construction.
type Registry struct {
	rules map[Operation]Rule
}

// NewRegistry builds a registry from rules. The map is copied.
func NewRegistry(rules map[Operation]Rule) *Registry {
	return &Registry{rules: maps.Clone(rules)}
}

// Lookup returns the rule registered for op.
func (r *Registry) Lookup(op Operation) (Rule, bool) {
	rule, ok := r.rules[op]
	return rule, ok
}

// Operations returns the registered operations in ascending order.
func (r *Registry) Operations() []Operation {
	return slices.Sorted(maps.Keys(r.rules))
}

var defaultRegistry = NewRegistry(defaultRules())

// DefaultRegistry returns the shared registry of EWS extraction rules.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Paths used by more than one rule.
const (
	pathItems   = "//m:Items/*"
	pathFolders = "//m:Folders/*"
)

func defaultRules() map[Operation]Rule {
	createItem := Gated{GateProtocol, ListRule{Path: pathItems}}

	return map[Operation]Rule{
		OpResolveNames: MergeJoinRule{
			Path:      "//m:ResolutionSet/*",
			Primary:   "t:Mailbox",
			Secondary: "t:Contact",
		},
		OpGetFolder:    ListRule{Path: pathFolders},
		OpFindFolder:   ListRule{Path: "//m:FindFolderResponseMessage//t:Folders/*"},
		OpCreateFolder: Gated{GateProtocol, ListRule{Path: pathFolders}},
		OpDeleteFolder: Gated{GateProtocol, NoItems{}},

		OpGetEvents: Gated{GateSubscription, MetadataListRule{
			Fields: []MetaField{
				{Key: "subscription_id", Path: "//m:Notification/t:SubscriptionId", Kind: FieldText, Required: true},
				{Key: "more_events", Path: "//m:Notification/t:MoreEvents", Kind: FieldBool},
				{Key: WatermarkKey, Path: "//m:Notification/t:PreviousWatermark", Kind: FieldText},
			},
			Records: ChildrenExcept{
				Parent: "//m:Notification",
				Except: []string{"t:SubscriptionId", "t:PreviousWatermark", "t:MoreEvents"},
			},
			WatermarkFromLast: true,
		}},

		OpFindItem: MetadataListRule{
			Fields: []MetaField{
				{Key: "total_items_in_view", Path: "//m:FindItemResponseMessage/m:RootFolder/@TotalItemsInView", Kind: FieldInt},
			},
			Records: PathSelector("//m:FindItemResponseMessage//t:Items/*"),
		},

		OpSubscribe:   MergedRecordRule{Paths: []string{"//m:SubscriptionId", "//m:Watermark"}},
		OpUnsubscribe: Gated{GatePermissive, NoItems{}},

		OpGetItem:    Gated{GateProtocol, ListRule{Path: pathItems}},
		OpCopyItem:   Gated{GateProtocol, ListRule{Path: pathItems, Pick: PickFirst}},
		OpMoveItem:   Gated{GateProtocol, ListRule{Path: pathItems, Pick: PickFirst}},
		OpCreateItem: createItem,
		OpUpdateItem: createItem,
		OpSendItem:   Gated{GateProtocol, ListRule{Path: pathItems}},

		OpGetAttachment:    Gated{GateProtocol, ListRule{Path: "//m:Attachments/*"}},
		OpCreateAttachment: Gated{GateProtocol, ListRule{Path: "//t:FileAttachment/*", Pick: PickLast}},

		OpSyncFolderItems: Gated{GateProtocol, MetadataListRule{
			Fields: []MetaField{
				{Key: "sync_state", Path: "//m:SyncState", Kind: FieldText, Required: true},
				{Key: "includes_last_item_in_range", Path: "//m:IncludesLastItemInRange", Kind: FieldBool},
			},
			Records:           PathSelector("//m:Changes/*"),
			WatermarkFromLast: true,
		}},

		OpGetUserOofSettings:  SingleRule{Path: "//t:OofSettings"},
		OpGetUserAvailability: SingleRule{Path: "//m:FreeBusyView"},
	}
}
