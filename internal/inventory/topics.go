package inventory

const (
	TopicOrderCreated  = "inventory.order.created"
	TopicOrderUpdated  = "inventory.order.updated"
	TopicOrderDeleted  = "inventory.order.deleted"
	TopicStockRejected = "inventory.stock.rejected"
)

// AuditTopics is everything the audit consumer subscribes to.
var AuditTopics = []string{
	TopicOrderCreated,
	TopicOrderUpdated,
	TopicOrderDeleted,
	TopicStockRejected,
}

// Partition key = produit_id, supaya semua movement utk satu product maintain urutan.
func PartitionKey(productID string) []byte { return []byte(productID) }
