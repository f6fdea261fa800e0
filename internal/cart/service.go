package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Admpapi/lucifer-website/internal/catalog"
	"github.com/Admpapi/lucifer-website/internal/domain"
)

var (
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Service owns one user's cart: a single logical owner per browsing
// session, so mutations are plain read-modify-write against the
// repository with no locking.
type Service struct {
	repo    Repository
	cache   Cache
	catalog catalog.RepoInterface
	sfg     singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache Cache, cat catalog.RepoInterface) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		catalog: cat,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil // cart is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errors.Is(errGet, ErrCartNotFound) { // no cart yet, return an empty one
			return &domain.Cart{
				UserID:    userID,
				Lines:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			if errSet := s.cache.Set(context.Background(), userID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem appends a new line for the product, snapshotting its current
// catalog price, or increments the quantity of an existing line.
func (s *Service) AddItem(ctx context.Context, userID string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}

	if line := cart.Line(productID); line != nil {
		line.Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: product.ID,
			Title:     product.Title,
			PriceRef:  product.PriceRef,
			UnitPrice: product.Price,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}

	return s.save(ctx, cart)
}

// UpdateQuantity sets the quantity of an existing line. A quantity
// below 1 removes the line; that is a deletion, not an error.
func (s *Service) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		cart.Lines = removeLine(cart.Lines, productID)
		return s.save(ctx, cart)
	}

	line := cart.Line(productID)
	if line == nil {
		return nil, ErrItemNotFound
	}
	line.Quantity = quantity

	return s.save(ctx, cart)
}

// RemoveItem deletes the line if present; removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID string, productID int64) (*domain.Cart, error) {
	cart, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Lines = removeLine(cart.Lines, productID)
	return s.save(ctx, cart)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	err := s.repo.DeleteCart(ctx, userID)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", err)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *Service) loadOrNew(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return &domain.Cart{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v", err)
		return nil, err
	}

	s.invalidateCache(cart.UserID)
	return cart, nil
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func removeLine(lines []domain.CartLine, productID int64) []domain.CartLine {
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	return kept
}
