package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	GetSpendTotals(ctx context.Context, start, end time.Time) (totalValue float64, statusCounts map[string]int, suspended int, err error)
	GetTopItems(ctx context.Context, start, end time.Time, limit int) ([]model.ItemRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) GetSpendTotals(ctx context.Context, start, end time.Time) (float64, map[string]int, int, error) {
	db := r.db.WithContext(ctx)

	// Spend counts only orders that cleared at least level-1 approval
	var total struct {
		Value float64
	}
	if err := db.Model(&model.PurchaseOrder{}).
		Select("COALESCE(SUM(total_amount), 0) as value").
		Where("approval_status <> ? AND created_at >= ? AND created_at <= ?", model.POApprovalDraft, start, end).
		Scan(&total).Error; err != nil {
		return 0, nil, 0, fmt.Errorf("failed to sum order value: %w", err)
	}

	var rows []struct {
		ApprovalStatus string
		Count          int
	}
	if err := db.Model(&model.PurchaseOrder{}).
		Select("approval_status, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("approval_status").
		Scan(&rows).Error; err != nil {
		return 0, nil, 0, fmt.Errorf("failed to count orders by status: %w", err)
	}
	statusCounts := make(map[string]int, len(rows))
	for _, row := range rows {
		statusCounts[row.ApprovalStatus] = row.Count
	}

	var suspended int64
	if err := db.Model(&model.PurchaseOrder{}).
		Where("is_suspended = TRUE AND created_at >= ? AND created_at <= ?", start, end).
		Count(&suspended).Error; err != nil {
		return 0, nil, 0, fmt.Errorf("failed to count suspended orders: %w", err)
	}

	return total.Value, statusCounts, int(suspended), nil
}

func (r *statisticsRepository) GetTopItems(ctx context.Context, start, end time.Time, limit int) ([]model.ItemRanking, error) {
	var rankings []model.ItemRanking
	if err := r.db.WithContext(ctx).Table("purchase_order_lines").
		Select("items.id as item_id, items.name as item_name, items.code as item_code, SUM(purchase_order_lines.quantity) as total_qty, SUM(purchase_order_lines.amount) as total_value").
		Joins("JOIN items ON items.id = purchase_order_lines.item_id").
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_lines.purchase_order_id").
		Where("purchase_orders.approval_status <> ? AND purchase_orders.created_at >= ? AND purchase_orders.created_at <= ?", model.POApprovalDraft, start, end).
		Group("items.id, items.name, items.code").
		Order("total_value DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top items: %w", err)
	}
	return rankings, nil
}
