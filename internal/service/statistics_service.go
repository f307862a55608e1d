package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
)

type StatisticsService interface {
	GetSpendStatistics(ctx context.Context, startDate, endDate time.Time) (model.SpendStatisticsResponse, error)
}

type statisticsService struct {
	statsRepo repository.StatisticsRepository
}

func NewStatisticsService(statsRepo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{statsRepo: statsRepo}
}

// GetSpendStatistics aggregates purchase order spend over a date range
func (s *statisticsService) GetSpendStatistics(ctx context.Context, startDate, endDate time.Time) (model.SpendStatisticsResponse, error) {
	var response model.SpendStatisticsResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	totalValue, statusCounts, suspended, err := s.statsRepo.GetSpendTotals(ctx, startDate, endDate)
	if err != nil {
		return response, fmt.Errorf("failed to fetch spend totals: %w", err)
	}

	response.TotalOrderValue = totalValue
	response.DraftOrders = statusCounts[model.POApprovalDraft]
	response.ApprovedOrders = statusCounts[model.POApprovalLevel1] + statusCounts[model.POApprovalLevel2]
	response.CompletedOrders = statusCounts[model.POApprovalCompleted]
	response.SuspendedOrders = suspended
	for _, count := range statusCounts {
		response.TotalOrders += count
	}

	topItems, err := s.statsRepo.GetTopItems(ctx, startDate, endDate, 5)
	if err != nil {
		return response, fmt.Errorf("failed to fetch top items: %w", err)
	}
	response.TopItems = topItems

	return response, nil
}
