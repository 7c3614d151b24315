package domain

var Tables = []interface{}{
	// Inventory
	&Product{},
	&Order{},
	&OrderItem{},
	// System
	&SysOpLog{},
}
