package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/modavia/modavia-golang/internal/metrics"
	"github.com/modavia/modavia-golang/internal/models"
	"github.com/modavia/modavia-golang/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
	metrics.Init("test")
}

// --- product store fake ---

type fakeProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
	order    []primitive.ObjectID

	listCalls   int
	searchCalls int
	failPricing map[primitive.ObjectID]bool
}

func newFakeProductStore(products ...models.Product) *fakeProductStore {
	s := &fakeProductStore{
		products:    map[primitive.ObjectID]models.Product{},
		failPricing: map[primitive.ObjectID]bool{},
	}
	for _, p := range products {
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return s
}

func (s *fakeProductStore) List(_ context.Context, filter store.ProductFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++

	out := []models.Product{}
	for _, id := range s.order {
		p := s.products[id]
		if !filter.AdminView && p.Stock <= 0 {
			continue
		}
		p.ApplyDefaults()
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProductStore) Search(_ context.Context, _ string, limit int64) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++

	out := []models.Product{}
	for _, id := range s.order {
		if int64(len(out)) >= limit {
			break
		}
		p := s.products[id]
		if p.Stock <= 0 {
			continue
		}
		p.ApplyDefaults()
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProductStore) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.ApplyDefaults()
	return &p, nil
}

func (s *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	s.products[p.ID] = *p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *fakeProductStore) Replace(_ context.Context, id primitive.ObjectID, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	p.ID = id
	s.products[id] = *p
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *fakeProductStore) DeleteMany(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := s.products[id]; ok {
			delete(s.products, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *fakeProductStore) FindByIDs(_ context.Context, ids []primitive.ObjectID, scope store.Scope) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		p, ok := s.products[id]
		if !ok {
			continue
		}
		switch scope.Field {
		case store.ScopeBrand:
			if p.Brand != scope.Value {
				continue
			}
		case store.ScopeCategory:
			if p.Category != scope.Value {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProductStore) UpdatePricing(_ context.Context, id primitive.ObjectID, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPricing[id] {
		return store.ErrNotFound
	}
	existing, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	existing.Price = p.Price
	existing.OriginalPrice = p.OriginalPrice
	existing.DiscountPercentage = p.DiscountPercentage
	s.products[id] = existing
	return nil
}

// --- subscriber store fake ---

type fakeSubscriberStore struct {
	mu      sync.Mutex
	subs    map[primitive.ObjectID]models.Subscriber
	byEmail map[string]primitive.ObjectID
	order   []primitive.ObjectID

	recordSendCalls []primitive.ObjectID
}

func newFakeSubscriberStore(subs ...models.Subscriber) *fakeSubscriberStore {
	s := &fakeSubscriberStore{
		subs:    map[primitive.ObjectID]models.Subscriber{},
		byEmail: map[string]primitive.ObjectID{},
	}
	for _, sub := range subs {
		s.subs[sub.ID] = sub
		s.byEmail[sub.Email] = sub.ID
		s.order = append(s.order, sub.ID)
	}
	return s
}

func (s *fakeSubscriberStore) FindByEmail(_ context.Context, email string) (*models.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	sub := s.subs[id]
	return &sub, nil
}

func (s *fakeSubscriberStore) Create(_ context.Context, sub *models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[sub.Email]; ok {
		return store.ErrDuplicate
	}
	sub.ID = primitive.NewObjectID()
	s.subs[sub.ID] = *sub
	s.byEmail[sub.Email] = sub.ID
	s.order = append(s.order, sub.ID)
	return nil
}

func (s *fakeSubscriberStore) Reactivate(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return store.ErrNotFound
	}
	sub.IsActive = true
	sub.SubscribedAt = at
	s.subs[id] = sub
	return nil
}

func (s *fakeSubscriberStore) Deactivate(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return store.ErrNotFound
	}
	sub.IsActive = false
	s.subs[id] = sub
	return nil
}

func (s *fakeSubscriberStore) ListActive(_ context.Context) ([]models.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Subscriber{}
	for _, id := range s.order {
		if sub := s.subs[id]; sub.IsActive {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeSubscriberStore) RecordSend(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return store.ErrNotFound
	}
	sub.EmailCount++
	sub.LastEmailSent = &at
	s.subs[id] = sub
	s.recordSendCalls = append(s.recordSendCalls, id)
	return nil
}

// --- look store fake ---

type fakeLookStore struct {
	mu    sync.Mutex
	looks map[primitive.ObjectID]models.Look
	order []primitive.ObjectID
}

func newFakeLookStore() *fakeLookStore {
	return &fakeLookStore{looks: map[primitive.ObjectID]models.Look{}}
}

func (s *fakeLookStore) List(_ context.Context) ([]models.Look, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Look{}
	for _, id := range s.order {
		out = append(out, s.looks[id])
	}
	return out, nil
}

func (s *fakeLookStore) Create(_ context.Context, l *models.Look) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = primitive.NewObjectID()
	l.CreatedAt = time.Now().UTC()
	s.looks[l.ID] = *l
	s.order = append(s.order, l.ID)
	return nil
}

func (s *fakeLookStore) Replace(_ context.Context, id primitive.ObjectID, l *models.Look) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.looks[id]; !ok {
		return store.ErrNotFound
	}
	l.ID = id
	s.looks[id] = *l
	return nil
}

func (s *fakeLookStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.looks[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.looks, id)
	return nil
}

// --- mailer fake ---

type fakeMailer struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: map[string]bool{}}
}

func (m *fakeMailer) Send(to, _, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[to] {
		return errSendFailed
	}
	m.sent = append(m.sent, to)
	return nil
}

var errSendFailed = &mailError{}

type mailError struct{}

func (*mailError) Error() string { return "smtp refused" }

// --- uploader fake ---

type fakeUploader struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (u *fakeUploader) UploadImage(_ context.Context, _ []byte, name, folder string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	url := "https://cdn.test/" + folder + "/" + name
	u.urls = append(u.urls, url)
	return url, nil
}

func newTestHandlers(products *fakeProductStore, subs *fakeSubscriberStore) (*Handlers, *fakeMailer) {
	mailer := newFakeMailer()
	return &Handlers{
		Products:    products,
		Subscribers: subs,
		Looks:       newFakeLookStore(),
		Mailer:      mailer,
		Cloud:       &fakeUploader{},
		Local:       &fakeUploader{},
		Logger:      zap.NewNop(),
	}, mailer
}
