package domain

// Category 仪表盘上的一个固定子视图（订单或持仓的一个分类）
// 每个分类对应后端响应信封中的一个子键、一张表和一份字段列表
type Category string

const (
	CategoryPending   Category = "pending"
	CategoryCancelled Category = "cancelled"
	CategoryTraded    Category = "traded"
	CategoryRejected  Category = "rejected"
	CategoryOthers    Category = "others"
	CategoryOpen      Category = "open"
	CategoryClosed    Category = "closed"
)

// orderFields 订单类分类的字段列表（顺序即表格列顺序）
var orderFields = []string{"name", "symbol", "transaction_type", "quantity", "price", "status", "order_id"}

// positionFields 持仓类分类的字段列表
var positionFields = []string{"name", "symbol", "quantity", "buy_avg", "sell_avg", "net_profit"}

// AllCategories 返回全部分类（轮询顺序即展示顺序）
func AllCategories() []Category {
	return []Category{
		CategoryPending,
		CategoryCancelled,
		CategoryTraded,
		CategoryRejected,
		CategoryOthers,
		CategoryOpen,
		CategoryClosed,
	}
}

// IsValid 验证分类是否属于固定枚举集合
func (c Category) IsValid() bool {
	switch c {
	case CategoryPending, CategoryCancelled, CategoryTraded,
		CategoryRejected, CategoryOthers, CategoryOpen, CategoryClosed:
		return true
	}
	return false
}

// IsOrder 订单类分类（来自 /get_orders）
func (c Category) IsOrder() bool {
	switch c {
	case CategoryPending, CategoryCancelled, CategoryTraded, CategoryRejected, CategoryOthers:
		return true
	}
	return false
}

// IsPosition 持仓类分类（来自 /get_positions）
func (c Category) IsPosition() bool {
	return c == CategoryOpen || c == CategoryClosed
}

// Fields 返回该分类的有序字段列表
func (c Category) Fields() []string {
	if c.IsPosition() {
		return positionFields
	}
	return orderFields
}

// Title 表格标题
func (c Category) Title() string {
	switch c {
	case CategoryPending:
		return "Pending Orders"
	case CategoryCancelled:
		return "Cancelled Orders"
	case CategoryTraded:
		return "Traded Orders"
	case CategoryRejected:
		return "Rejected Orders"
	case CategoryOthers:
		return "Other Orders"
	case CategoryOpen:
		return "Open Positions"
	case CategoryClosed:
		return "Closed Positions"
	}
	return string(c)
}
