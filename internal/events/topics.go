package events

const (
	TopicOrderCreated   = "order.created"
	TopicCatalogChanged = "catalog.changed"
)

// Partition key = entity id, so every event of one order or product keeps its order.
func PartitionKey(id string) []byte { return []byte(id) }
