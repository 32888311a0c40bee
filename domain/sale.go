package domain

type Sale struct {
	ID           int64   `db:"id" json:"id"`
	MedicineID   int64   `db:"medicine_id" json:"medicine_id"`
	QuantitySold int64   `db:"quantity_sold" json:"quantity_sold"`
	TotalPrice   float64 `db:"total_price" json:"total_price"`
	DateSold     *string `db:"date_sold" json:"date_sold"`

	// Resolved from the medicine table at read time; "Unknown" when the
	// referenced row no longer exists.
	MedicineName string `db:"medicine_name" json:"medicine_name"`
}

type DashboardStats struct {
	TotalMedicines  int64   `db:"total_medicines" json:"total_medicines"`
	LowStockItems   int64   `db:"low_stock_items" json:"low_stock_items"`
	OutOfStockItems int64   `db:"out_of_stock_items" json:"out_of_stock_items"`
	TotalValue      float64 `db:"-" json:"total_value"`
	TotalSales      float64 `db:"-" json:"total_sales"`
}
