package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
)

var (
	ErrQueueItemNotFound = errors.New("queue item not found")
	ErrNothingToPrint    = errors.New("no queued posters match the selection")
)

// QueueService holds the posters waiting to be printed and the history of
// what was printed.
type QueueService struct {
	data    *DataService
	posters *PosterService
}

func NewQueueService(data *DataService, posters *PosterService) *QueueService {
	return &QueueService{data: data, posters: posters}
}

// Add queues a snapshot of the poster with quantity 1.
func (s *QueueService) Add(ctx context.Context, userID uint, req models.PosterRequest) (*poster.PrintQueueItem, error) {
	cfg, err := s.posters.Resolve(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	doc, err := s.data.Insert(ctx, userID, models.DataTypeQueue, poster.PrintQueueItem{PosterConfig: cfg, Quantity: 1})
	if err != nil {
		return nil, err
	}

	var item poster.PrintQueueItem
	if err := decodeDocument(doc, &item); err != nil {
		return nil, fmt.Errorf("decode queue item: %w", err)
	}
	return &item, nil
}

// List returns the queue in the order items were added.
func (s *QueueService) List(ctx context.Context, userID uint) ([]poster.PrintQueueItem, error) {
	docs, err := s.data.List(ctx, userID, models.DataTypeQueue)
	if err != nil {
		return nil, err
	}
	items := []poster.PrintQueueItem{}
	if err := decodeDocuments(docs, &items); err != nil {
		return nil, fmt.Errorf("decode queue: %w", err)
	}
	slices.Reverse(items)
	return items, nil
}

func (s *QueueService) Remove(ctx context.Context, userID uint, id string) error {
	err := s.data.Remove(ctx, userID, id, models.DataTypeQueue)
	if errors.Is(err, ErrDocumentNotFound) {
		return ErrQueueItemNotFound
	}
	return err
}

func (s *QueueService) Clear(ctx context.Context, userID uint) (int64, error) {
	return s.data.Clear(ctx, userID, models.DataTypeQueue)
}

// Select returns the queued items named by ids in queue order. No ids
// selects the whole queue.
func (s *QueueService) Select(ctx context.Context, userID uint, ids []string) ([]poster.PrintQueueItem, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return items, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	selected := make([]poster.PrintQueueItem, 0, len(ids))
	for _, item := range items {
		if _, ok := wanted[item.ID]; ok {
			selected = append(selected, item)
		}
	}
	return selected, nil
}

// Print selects items like Select and records each one in the history.
func (s *QueueService) Print(ctx context.Context, userID uint, ids []string) ([]poster.PrintQueueItem, error) {
	items, err := s.Select(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNothingToPrint
	}

	snapshots := make([]interface{}, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, item.PosterConfig)
	}
	if _, err := s.data.InsertMany(ctx, userID, models.DataTypeHistory, snapshots); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to record print history")
	}
	return items, nil
}

// History lists printed posters, newest first.
func (s *QueueService) History(ctx context.Context, userID uint) ([]poster.PosterConfig, error) {
	docs, err := s.data.List(ctx, userID, models.DataTypeHistory)
	if err != nil {
		return nil, err
	}
	history := []poster.PosterConfig{}
	if err := decodeDocuments(docs, &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}
