package model

import (
	"time"
)

// SpendStatisticsResponse aggregates purchase order value over a date range
type SpendStatisticsResponse struct {
	TotalOrderValue    float64       `json:"total_order_value"`
	TotalOrders        int           `json:"total_orders"`
	DraftOrders        int           `json:"draft_orders"`
	ApprovedOrders     int           `json:"approved_orders"`
	CompletedOrders    int           `json:"completed_orders"`
	SuspendedOrders    int           `json:"suspended_orders"`
	TopItems           []ItemRanking `json:"top_items"`
	TimeRangeStartDate time.Time     `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time     `json:"time_range_end_date"`
}

// ItemRanking represents an item ranked by ordered value across POs
type ItemRanking struct {
	ItemID     string  `json:"item_id"`
	ItemName   string  `json:"item_name"`
	ItemCode   string  `json:"item_code"`
	TotalQty   float64 `json:"total_qty"`
	TotalValue float64 `json:"total_value"`
}
