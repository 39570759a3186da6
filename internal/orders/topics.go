package orders

const (
	TopicOrderPlaced     = "order.placed"
	TopicProductStockLow = "product.stock.low"
)

// PartitionKey keeps all events for one entity on one partition.
func PartitionKey(id string) []byte { return []byte(id) }
