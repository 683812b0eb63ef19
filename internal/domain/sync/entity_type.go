package sync

// ---------------------------------------------------------------------------
// EntityType
// ---------------------------------------------------------------------------

// EntityType identifies one synchronized entity family. Each type has its own
// watermark row and its own entity sync module.
type EntityType string

const (
	// EntityTypeAccounts is the remote chart of accounts (reference data)
	EntityTypeAccounts EntityType = "accounts"
	// EntityTypeCustomers covers customers and their remote contact persons
	EntityTypeCustomers EntityType = "customers"
	// EntityTypeProjects covers fabrication projects/jobs
	EntityTypeProjects EntityType = "projects"
	// EntityTypeSalesDocuments covers quotes and invoices
	EntityTypeSalesDocuments EntityType = "sales_documents"
	// EntityTypePurchaseOrders covers purchase orders
	EntityTypePurchaseOrders EntityType = "purchase_orders"
	// EntityTypeStockItems covers stock items
	EntityTypeStockItems EntityType = "stock_items"
	// EntityTypePayrollItems covers payroll pay item codes
	EntityTypePayrollItems EntityType = "payroll_items"
)

// IsValid returns true if the entity type is known
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeAccounts, EntityTypeCustomers, EntityTypeProjects,
		EntityTypeSalesDocuments, EntityTypePurchaseOrders,
		EntityTypeStockItems, EntityTypePayrollItems:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// DependencyOrder returns all entity types in the order a run must process them.
// Later types reconcile against earlier ones (a sales document references a
// customer and a project that must already be linked), so the order is fixed:
// reference data, then parties, then projects, then financial documents, then
// stock, then payroll-adjacent data.
func DependencyOrder() []EntityType {
	return []EntityType{
		EntityTypeAccounts,
		EntityTypeCustomers,
		EntityTypeProjects,
		EntityTypeSalesDocuments,
		EntityTypePurchaseOrders,
		EntityTypeStockItems,
		EntityTypePayrollItems,
	}
}
