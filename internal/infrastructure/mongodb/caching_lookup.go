package mongodb

import (
	"context"
	"errors"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/domain"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/metrics"
)

// AddressCache is the storage CachingAddressLookup reads through
type AddressCache interface {
	Find(ctx context.Context, code domain.PostalCode) (*domain.ResolvedAddress, bool, error)
	Save(ctx context.Context, code domain.PostalCode, address domain.ResolvedAddress) error
}

// CachingAddressLookup serves repeat postal codes from the cache. Only
// successful lookups are stored; cache failures are logged and the call
// falls through to the wrapped lookup.
type CachingAddressLookup struct {
	next    domain.AddressLookup
	cache   AddressCache
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewCachingAddressLookup wraps next. m may be nil.
func NewCachingAddressLookup(next domain.AddressLookup, cache AddressCache, m *metrics.Metrics, logger *logging.Logger) *CachingAddressLookup {
	return &CachingAddressLookup{
		next:    next,
		cache:   cache,
		metrics: m,
		logger:  logger.WithComponent("address-cache"),
	}
}

// Lookup implements domain.AddressLookup
func (l *CachingAddressLookup) Lookup(ctx context.Context, code domain.PostalCode) (*domain.ResolvedAddress, error) {
	cached, found, err := l.cache.Find(ctx, code)
	switch {
	case err != nil:
		l.record("error")
		l.logger.WithContext(ctx).WithError(err).Warn("Address cache read failed", "cep", code.String())
	case found:
		l.record("hit")
		return cached, nil
	default:
		l.record("miss")
	}

	address, err := l.next.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, errors.New("lookup returned no address")
	}

	if err := l.cache.Save(ctx, code, *address); err != nil {
		l.logger.WithContext(ctx).WithError(err).Warn("Address cache write failed", "cep", code.String())
	}

	return address, nil
}

func (l *CachingAddressLookup) record(result string) {
	if l.metrics != nil {
		l.metrics.RecordAddressCacheLookup(result)
	}
}
