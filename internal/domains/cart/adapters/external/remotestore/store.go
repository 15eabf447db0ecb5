package remotestore

import (
	"context"
	"errors"

	storeclient "github.com/Apurer/go-gin-cart-server/internal/clients/http/remotestore"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// Store implements the outbound remote store port over the HTTP client.
type Store struct {
	client *storeclient.Client
}

// NewStore wires the remote store HTTP client into the adapter.
func NewStore(client *storeclient.Client) *Store {
	return &Store{client: client}
}

// Fetch reads the remote document and maps it onto the domain snapshot.
func (s *Store) Fetch(ctx context.Context) (domain.Snapshot, error) {
	if s == nil || s.client == nil {
		return domain.Snapshot{}, errors.New("remote store not configured")
	}
	doc, err := s.client.FetchCart(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return fromDocument(doc), nil
}

// Push replaces the remote document with the snapshot.
func (s *Store) Push(ctx context.Context, snapshot domain.Snapshot) error {
	if s == nil || s.client == nil {
		return errors.New("remote store not configured")
	}
	return s.client.PutCart(ctx, toDocument(snapshot))
}

func fromDocument(doc *storeclient.CartDocument) domain.Snapshot {
	if doc == nil {
		return domain.Snapshot{Items: []domain.Line{}}
	}
	items := make([]domain.Line, 0, len(doc.Items))
	for _, line := range doc.Items {
		items = append(items, domain.Line{
			ID:         line.ID,
			Name:       line.Name,
			UnitPrice:  line.Price,
			Quantity:   line.Quantity,
			TotalPrice: line.TotalPrice,
		})
	}
	return domain.Snapshot{Items: items, TotalQuantity: doc.TotalQuantity}
}

func toDocument(snapshot domain.Snapshot) storeclient.CartDocument {
	items := make([]storeclient.LinePayload, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		items = append(items, storeclient.LinePayload{
			ID:         line.ID,
			Name:       line.Name,
			Price:      line.UnitPrice,
			Quantity:   line.Quantity,
			TotalPrice: line.TotalPrice,
		})
	}
	return storeclient.CartDocument{Items: items, TotalQuantity: snapshot.TotalQuantity}
}

var _ ports.RemoteStore = (*Store)(nil)
