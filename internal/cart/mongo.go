package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Admpapi/lucifer-website/internal/domain"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection("carts")}
}

// cartDoc and lineDoc are the stored shape. Unit prices are kept as
// strings so arbitrary-precision decimals survive the round trip.
type cartDoc struct {
	UserID    string    `bson:"user_id"`
	Lines     []lineDoc `bson:"lines"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type lineDoc struct {
	ProductID int64     `bson:"product_id"`
	Title     string    `bson:"title"`
	PriceRef  string    `bson:"price_ref"`
	UnitPrice string    `bson:"unit_price"`
	Quantity  int       `bson:"quantity"`
	AddedAt   time.Time `bson:"added_at"`
}

func (m *MongoRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var doc cartDoc

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return docToCart(&doc)
}

func (m *MongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()

	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{"$set": cartToDoc(cart)}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	return nil
}

func (m *MongoRepository) DeleteCart(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Abandoned carts evict after 30 days, mirroring the old
			// client-side storage lifetime.
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(30 * 24 * 60 * 60),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func cartToDoc(cart *domain.Cart) *cartDoc {
	doc := &cartDoc{
		UserID:    cart.UserID,
		Lines:     make([]lineDoc, 0, len(cart.Lines)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, l := range cart.Lines {
		doc.Lines = append(doc.Lines, lineDoc{
			ProductID: l.ProductID,
			Title:     l.Title,
			PriceRef:  l.PriceRef,
			UnitPrice: l.UnitPrice.String(),
			Quantity:  l.Quantity,
			AddedAt:   l.AddedAt,
		})
	}
	return doc
}

func docToCart(doc *cartDoc) (*domain.Cart, error) {
	cart := &domain.Cart{
		UserID:    doc.UserID,
		Lines:     make([]domain.CartLine, 0, len(doc.Lines)),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, l := range doc.Lines {
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored unit price %q: %w", l.UnitPrice, err)
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: l.ProductID,
			Title:     l.Title,
			PriceRef:  l.PriceRef,
			UnitPrice: price,
			Quantity:  l.Quantity,
			AddedAt:   l.AddedAt,
		})
	}
	return cart, nil
}
