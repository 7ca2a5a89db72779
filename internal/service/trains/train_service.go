package trains

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Domenick1991/trainbooking/internal/cache"
	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/Domenick1991/trainbooking/internal/repository"
)

type TrainUseCase interface {
	List(ctx context.Context) ([]domain.Train, error)
	GetByID(ctx context.Context, id int64) (*domain.Train, error)
	Create(ctx context.Context, input TrainInput) (*domain.Train, error)
	Update(ctx context.Context, id int64, input TrainInput) (*domain.Train, error)
	Delete(ctx context.Context, id int64) error
	RefreshCache(ctx context.Context) error
}

type TrainCache interface {
	GetTrains(ctx context.Context) ([]domain.Train, error)
	TrainsVersion(ctx context.Context) (int64, error)
	SetTrains(ctx context.Context, trains []domain.Train, version int64) error
	InvalidateTrains(ctx context.Context) error
}

type TrainInput struct {
	Name               string  `json:"name"`
	Source             string  `json:"source"`
	Destination        string  `json:"destination"`
	BasePrice          float64 `json:"base_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

func (in TrainInput) train(id int64) *domain.Train {
	return &domain.Train{
		ID:                 id,
		Name:               in.Name,
		Source:             in.Source,
		Destination:        in.Destination,
		BasePrice:          in.BasePrice,
		DiscountPercentage: in.DiscountPercentage,
	}
}

var errNoCache = errors.New("no cache configured")

type TrainService struct {
	repo  repository.TrainRepository
	cache TrainCache
}

// NewTrainService accepts a nil cache.
func NewTrainService(repo repository.TrainRepository, cache TrainCache) *TrainService {
	return &TrainService{repo: repo, cache: cache}
}

func (s *TrainService) List(ctx context.Context) ([]domain.Train, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrains(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	version, verr := s.cacheVersion(ctx)
	trains, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if verr == nil {
		if err := s.store(ctx, trains, version); err != nil {
			log.Printf("WARNING: failed to cache trains: %v", err)
		}
	}
	return trains, nil
}

// GetByID returns nil, nil when the train does not exist.
func (s *TrainService) GetByID(ctx context.Context, id int64) (*domain.Train, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TrainService) Create(ctx context.Context, input TrainInput) (*domain.Train, error) {
	train := input.train(0)
	if err := domain.Validate(train); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, train); err != nil {
		return nil, fmt.Errorf("create train: %w", err)
	}
	s.invalidate(ctx)
	return train, nil
}

func (s *TrainService) Update(ctx context.Context, id int64, input TrainInput) (*domain.Train, error) {
	train := input.train(id)
	if err := domain.Validate(train); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, train); err != nil {
		return nil, fmt.Errorf("update train %d: %w", id, err)
	}
	s.invalidate(ctx)
	return train, nil
}

func (s *TrainService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete train %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

// RefreshCache reloads the cached train list from the repository.
func (s *TrainService) RefreshCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	version, err := s.cache.TrainsVersion(ctx)
	if err != nil {
		return fmt.Errorf("read trains cache version: %w", err)
	}
	trains, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	return s.store(ctx, trains, version)
}

func (s *TrainService) cacheVersion(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, errNoCache
	}
	version, err := s.cache.TrainsVersion(ctx)
	if err != nil {
		log.Printf("WARNING: failed to read trains cache version: %v", err)
	}
	return version, err
}

// store skips lists that a concurrent write already invalidated.
func (s *TrainService) store(ctx context.Context, trains []domain.Train, version int64) error {
	err := s.cache.SetTrains(ctx, trains, version)
	if errors.Is(err, cache.ErrStale) {
		return nil
	}
	return err
}

func (s *TrainService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTrains(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate trains cache: %v", err)
	}
}

var _ TrainUseCase = (*TrainService)(nil)
