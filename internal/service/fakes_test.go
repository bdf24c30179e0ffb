package service

import (
	"context"
	"sort"
	"time"

	"afisha/internal/errors"
	"afisha/internal/models"
)

// In-memory fakes for the store interfaces.

type fakeEventStore struct {
	byID   map[int64]*models.Event
	nextID int64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{byID: make(map[int64]*models.Event), nextID: 1}
}

func (f *fakeEventStore) add(e models.Event) *models.Event {
	if e.ID == 0 {
		e.ID = f.nextID
	}
	if e.ID >= f.nextID {
		f.nextID = e.ID + 1
	}
	stored := e
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	event.ID = f.nextID
	f.nextID++
	stored := *event
	f.byID[event.ID] = &stored
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventStore) Update(_ context.Context, event *models.Event) error {
	stored := *event
	f.byID[event.ID] = &stored
	return nil
}

func (f *fakeEventStore) all() []models.Event {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.byID[id])
	}
	return out
}

func (f *fakeEventStore) FindAllByPublic(_ context.Context, filter models.PublicEventFilter) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.all() {
		if e.State != models.EventStatePublished {
			continue
		}
		if filter.OnlyAvailable && !e.HasCapacity() {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventStore) FindAllByAdmin(_ context.Context, _ models.AdminEventFilter) ([]models.Event, error) {
	return f.all(), nil
}

func (f *fakeEventStore) FindAllByInitiator(_ context.Context, initiatorID int64, _, _ int) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.all() {
		if e.Initiator.ID == initiatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) FindPublishedByInitiators(_ context.Context, ownerIDs []int64, _, _ int) ([]models.Event, error) {
	owners := make(map[int64]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}

	var out []models.Event
	for _, e := range f.all() {
		if e.State == models.EventStatePublished && owners[e.Initiator.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) FindAllByIDs(_ context.Context, ids []int64) ([]models.Event, error) {
	var out []models.Event
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) ExistsByCategory(_ context.Context, categoryID int64) (bool, error) {
	for _, e := range f.byID {
		if e.Category.ID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserStore struct {
	byID   map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) add(u models.User) *models.User {
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	stored := u
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.byID {
		if u.Email == user.Email {
			return errors.Duplicated("user with email %s already exists", user.Email)
		}
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeUserStore) List(_ context.Context, ids []int64, from, size int) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if len(ids) > 0 {
			found := false
			for _, id := range ids {
				if u.ID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if from > len(out) {
		from = len(out)
	}
	out = out[from:]
	if size < len(out) {
		out = out[:size]
	}
	return out, nil
}

type fakeCategoryStore struct {
	byID   map[int64]*models.Category
	nextID int64
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{byID: make(map[int64]*models.Category), nextID: 1}
}

func (f *fakeCategoryStore) add(c models.Category) *models.Category {
	if c.ID == 0 {
		c.ID = f.nextID
	}
	if c.ID >= f.nextID {
		f.nextID = c.ID + 1
	}
	stored := c
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeCategoryStore) Create(_ context.Context, category *models.Category) error {
	category.ID = f.nextID
	f.nextID++
	stored := *category
	f.byID[category.ID] = &stored
	return nil
}

func (f *fakeCategoryStore) Update(_ context.Context, category *models.Category) error {
	stored := *category
	f.byID[category.ID] = &stored
	return nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id int64) (*models.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeCategoryStore) List(_ context.Context, _, _ int) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, nil
}

type fakeRequestStore struct {
	byID        map[int64]*models.ParticipationRequest
	nextID      int64
	batchResult *models.RequestStatusUpdateResult
	batchErr    error

	lastBatchEventID int64
	lastBatchOwnerID int64
	lastBatchIDs     []int64
	lastBatchTarget  models.RequestStatus
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{byID: make(map[int64]*models.ParticipationRequest), nextID: 1}
}

func (f *fakeRequestStore) add(r models.ParticipationRequest) *models.ParticipationRequest {
	if r.ID == 0 {
		r.ID = f.nextID
	}
	if r.ID >= f.nextID {
		f.nextID = r.ID + 1
	}
	stored := r
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeRequestStore) Create(_ context.Context, eventID, requesterID int64) (*models.ParticipationRequest, error) {
	request := &models.ParticipationRequest{
		ID:          f.nextID,
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      models.RequestStatusPending,
		Created:     time.Now(),
	}
	f.nextID++
	stored := *request
	f.byID[request.ID] = &stored
	return request, nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id int64) (*models.ParticipationRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRequestStore) ListByRequester(_ context.Context, requesterID int64) ([]models.ParticipationRequest, error) {
	var out []models.ParticipationRequest
	for _, r := range f.byID {
		if r.RequesterID == requesterID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) ListByEvent(_ context.Context, eventID int64) ([]models.ParticipationRequest, error) {
	var out []models.ParticipationRequest
	for _, r := range f.byID {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) UpdateStatus(_ context.Context, id int64, status models.RequestStatus) error {
	if r, ok := f.byID[id]; ok {
		r.Status = status
	}
	return nil
}

func (f *fakeRequestStore) UpdateStatusBatch(_ context.Context, eventID, ownerID int64, requestIDs []int64, target models.RequestStatus) (*models.RequestStatusUpdateResult, error) {
	f.lastBatchEventID = eventID
	f.lastBatchOwnerID = ownerID
	f.lastBatchIDs = requestIDs
	f.lastBatchTarget = target

	if f.batchErr != nil {
		return nil, f.batchErr
	}
	if f.batchResult != nil {
		return f.batchResult, nil
	}
	return &models.RequestStatusUpdateResult{
		ConfirmedRequests: []models.ParticipationRequestDto{},
		RejectedRequests:  []models.ParticipationRequestDto{},
	}, nil
}

// fakeSubscriptionStore keeps subscriptions in insertion order.
type fakeSubscriptionStore struct {
	nextID        int64
	subscriptions []models.Subscription
}

func (f *fakeSubscriptionStore) Create(_ context.Context, subscriberID, ownerID int64) (*models.Subscription, error) {
	for _, s := range f.subscriptions {
		if s.SubscriberID == subscriberID && s.OwnerID == ownerID {
			return nil, errors.Duplicated("user %d already follows user %d", subscriberID, ownerID)
		}
	}

	f.nextID++
	subscription := models.Subscription{
		ID:           f.nextID,
		SubscriberID: subscriberID,
		OwnerID:      ownerID,
		Created:      time.Now(),
	}
	f.subscriptions = append(f.subscriptions, subscription)
	return &subscription, nil
}

func (f *fakeSubscriptionStore) Delete(_ context.Context, subscriberID, ownerID int64) (bool, error) {
	for i, s := range f.subscriptions {
		if s.SubscriberID == subscriberID && s.OwnerID == ownerID {
			f.subscriptions = append(f.subscriptions[:i], f.subscriptions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubscriptionStore) ListBySubscriber(_ context.Context, subscriberID int64) ([]models.Subscription, error) {
	var result []models.Subscription
	for _, s := range f.subscriptions {
		if s.SubscriberID == subscriberID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSubscriptionStore) OwnerIDs(_ context.Context, subscriberID int64) ([]int64, error) {
	var ids []int64
	for _, s := range f.subscriptions {
		if s.SubscriberID == subscriberID {
			ids = append(ids, s.OwnerID)
		}
	}
	return ids, nil
}

func (f *fakeSubscriptionStore) SubscriberIDs(_ context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	for _, s := range f.subscriptions {
		if s.OwnerID == ownerID {
			ids = append(ids, s.SubscriberID)
		}
	}
	return ids, nil
}

// fakeStats records calls and serves canned view counts.
type fakeStats struct {
	hits     []string
	counts   map[string]int64
	countErr error
	hitErr   error
}

func (f *fakeStats) RecordHit(uri, _ string, _ time.Time) error {
	f.hits = append(f.hits, uri)
	return f.hitErr
}

func (f *fakeStats) GetViewCounts(_ []string, _, _ time.Time, _ bool) (map[string]int64, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	if f.counts == nil {
		return map[string]int64{}, nil
	}
	return f.counts, nil
}

// fakePublisher records published subjects.
type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(subject string, _ interface{}) error {
	f.subjects = append(f.subjects, subject)
	return nil
}
