package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
	pkgmongo "github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/mongodb"
)

// AddressCollection stores resolved postal codes
const AddressCollection = "postal_addresses"

// DefaultAddressTTL is how long a resolved address is served from cache
const DefaultAddressTTL = 30 * 24 * time.Hour

type addressDocument struct {
	PostalCode string                 `bson:"_id"`
	Address    domain.ResolvedAddress `bson:"address"`
	CachedAt   time.Time              `bson:"cachedAt"`
}

// AddressCacheRepository persists resolved addresses with a TTL index
type AddressCacheRepository struct {
	collection *pkgmongo.InstrumentedCollection
	ttl        time.Duration
	now        func() time.Time
}

// NewAddressCacheRepository creates the repository. Call EnsureIndexes once at startup.
func NewAddressCacheRepository(client *pkgmongo.Client, ttl time.Duration, m *metrics.Metrics, logger *logging.Logger) *AddressCacheRepository {
	if ttl <= 0 {
		ttl = DefaultAddressTTL
	}
	return &AddressCacheRepository{
		collection: pkgmongo.NewInstrumentedCollection(client, AddressCollection, m, logger),
		ttl:        ttl,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the TTL index on cachedAt
func (r *AddressCacheRepository) EnsureIndexes(ctx context.Context) error {
	err := r.collection.CreateIndexes(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cachedAt", Value: 1}},
			Options: options.Index().SetName("cachedAt_ttl").SetExpireAfterSeconds(int32(r.ttl.Seconds())),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", AddressCollection, err)
	}
	return nil
}

// Find returns the cached address for code. The TTL monitor runs only every
// minute or so, so expiry is also enforced in the query.
func (r *AddressCacheRepository) Find(ctx context.Context, code domain.PostalCode) (*domain.ResolvedAddress, bool, error) {
	filter := bson.M{
		"_id":      code.String(),
		"cachedAt": bson.M{"$gt": r.now().Add(-r.ttl)},
	}

	var doc addressDocument
	err := r.collection.FindOne(ctx, filter, &doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find cached address %s: %w", code, err)
	}

	address := doc.Address
	return &address, true, nil
}

// Save upserts the address for code and refreshes its timestamp
func (r *AddressCacheRepository) Save(ctx context.Context, code domain.PostalCode, address domain.ResolvedAddress) error {
	doc := addressDocument{
		PostalCode: code.String(),
		Address:    address,
		CachedAt:   r.now(),
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.PostalCode}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to cache address %s: %w", code, err)
	}
	return nil
}

// Delete evicts code
func (r *AddressCacheRepository) Delete(ctx context.Context, code domain.PostalCode) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": code.String()}); err != nil {
		return fmt.Errorf("failed to evict cached address %s: %w", code, err)
	}
	return nil
}
