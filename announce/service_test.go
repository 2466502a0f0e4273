package announce

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// fakeStore is a minimal in-memory Store for service tests.
type fakeStore struct {
	mu            sync.Mutex
	announcements map[string]*Announcement
	campaigns     map[string]*Campaign
	dismissals    map[string]map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		announcements: make(map[string]*Announcement),
		campaigns:     make(map[string]*Campaign),
		dismissals:    make(map[string]map[string]bool),
	}
}

func (f *fakeStore) SaveAnnouncement(_ context.Context, a *Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.announcements[a.ID.String()] = &cp
	return nil
}

func (f *fakeStore) GetAnnouncement(_ context.Context, annID id.AnnouncementID) (*Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.announcements[annID.String()]
	if !ok {
		return nil, checkout.ErrAnnouncementNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListAnnouncements(_ context.Context) ([]*Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Announcement, 0, len(f.announcements))
	for _, a := range f.announcements {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) DeleteAnnouncement(_ context.Context, annID id.AnnouncementID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.announcements, annID.String())
	return nil
}

func (f *fakeStore) SaveCampaign(_ context.Context, c *Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.campaigns[c.ID.String()] = &cp
	return nil
}

func (f *fakeStore) GetCampaign(_ context.Context, campID id.CampaignID) (*Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campID.String()]
	if !ok {
		return nil, checkout.ErrCampaignNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListCampaigns(_ context.Context) ([]*Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Campaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) DeleteCampaign(_ context.Context, campID id.CampaignID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.campaigns, campID.String())
	return nil
}

func (f *fakeStore) SaveDismissal(_ context.Context, sessionKey string, annID id.AnnouncementID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dismissals[sessionKey] == nil {
		f.dismissals[sessionKey] = make(map[string]bool)
	}
	f.dismissals[sessionKey][annID.String()] = true
	return nil
}

func (f *fakeStore) IsDismissed(_ context.Context, sessionKey string, annID id.AnnouncementID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dismissals[sessionKey][annID.String()], nil
}

// recordingEmitter captures published announcement IDs and messages.
type recordingEmitter struct {
	mu        sync.Mutex
	published []string
}

func (r *recordingEmitter) EmitAnnouncementPublished(_ context.Context, _ id.AnnouncementID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, message)
}

func (r *recordingEmitter) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.published...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, store Store, opts ...ServiceOption) *Service {
	t.Helper()
	opts = append([]ServiceOption{WithLogger(quietLogger())}, opts...)
	s, err := NewService(store, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func TestNewService_RequiresStore(t *testing.T) {
	if _, err := NewService(nil); !errors.Is(err, checkout.ErrNoStore) {
		t.Errorf("err = %v, want ErrNoStore", err)
	}
}

func TestPublish_AssignsIDAndEmits(t *testing.T) {
	store := newFakeStore()
	emitter := &recordingEmitter{}
	s := newTestService(t, store, WithEmitter(emitter))

	ann := &Announcement{Message: "Winter sale is live", Variant: VariantPromo}
	if err := s.Publish(context.Background(), ann); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if ann.ID.IsNil() {
		t.Error("Publish should assign an ID")
	}
	if ann.CreatedAt.IsZero() || ann.UpdatedAt.IsZero() {
		t.Error("Publish should stamp timestamps")
	}
	if _, err := store.GetAnnouncement(context.Background(), ann.ID); err != nil {
		t.Errorf("announcement not persisted: %v", err)
	}
	if got := emitter.messages(); len(got) != 1 || got[0] != "Winter sale is live" {
		t.Errorf("emitted = %v", got)
	}
}

func TestRevoke_RemovesAnnouncement(t *testing.T) {
	store := newFakeStore()
	s := newTestService(t, store)

	ann := &Announcement{Message: "gone soon"}
	if err := s.Publish(context.Background(), ann); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := s.Revoke(context.Background(), ann.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := store.GetAnnouncement(context.Background(), ann.ID); !errors.Is(err, checkout.ErrAnnouncementNotFound) {
		t.Errorf("err = %v, want ErrAnnouncementNotFound", err)
	}
}

func TestActive_FiltersWindowAndDismissals(t *testing.T) {
	store := newFakeStore()
	s := newTestService(t, store)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	live := &Announcement{Message: "live", StartsAt: &past, EndsAt: &future}
	expired := &Announcement{Message: "expired", EndsAt: &past}
	upcoming := &Announcement{Message: "upcoming", StartsAt: &future}
	dismissed := &Announcement{Message: "dismissed"}
	for _, a := range []*Announcement{live, expired, upcoming, dismissed} {
		if err := s.Publish(ctx, a); err != nil {
			t.Fatalf("Publish %q: %v", a.Message, err)
		}
	}
	if err := s.Dismiss(ctx, "sess-1", dismissed.ID); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}

	got, err := s.Active(ctx, "sess-1", now)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(got) != 1 || got[0].Message != "live" {
		t.Errorf("Active = %d announcements, want only %q", len(got), "live")
	}

	// Another session still sees the dismissed banner.
	other, err := s.Active(ctx, "sess-2", now)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(other) != 2 {
		t.Errorf("other session sees %d announcements, want 2", len(other))
	}
}

func TestDismiss_UnknownAnnouncement(t *testing.T) {
	s := newTestService(t, newFakeStore())
	err := s.Dismiss(context.Background(), "sess-1", id.NewAnnouncementID())
	if !errors.Is(err, checkout.ErrAnnouncementNotFound) {
		t.Errorf("err = %v, want ErrAnnouncementNotFound", err)
	}
}

func TestRotate_AdvancesAndWraps(t *testing.T) {
	store := newFakeStore()
	emitter := &recordingEmitter{}
	s := newTestService(t, store, WithEmitter(emitter))
	ctx := context.Background()

	first := &Announcement{Message: "banner one"}
	second := &Announcement{Message: "banner two"}
	for _, a := range []*Announcement{first, second} {
		if err := s.Publish(ctx, a); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	emitter.published = nil

	camp := &Campaign{
		ID:            id.NewCampaignID(),
		Name:          "summer",
		Schedule:      "@hourly",
		Announcements: []id.AnnouncementID{first.ID, second.ID},
	}
	if err := store.SaveCampaign(ctx, camp); err != nil {
		t.Fatalf("SaveCampaign: %v", err)
	}

	s.rotate(ctx, camp.ID)
	s.rotate(ctx, camp.ID)
	s.rotate(ctx, camp.ID)

	got := emitter.messages()
	want := []string{"banner one", "banner two", "banner one"}
	if len(got) != len(want) {
		t.Fatalf("emitted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rotation[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	stored, err := store.GetCampaign(ctx, camp.ID)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if stored.NextIndex != 1 {
		t.Errorf("NextIndex = %d, want 1 after three rotations of two banners", stored.NextIndex)
	}
}

func TestRotate_EmptyCampaignIsNoop(t *testing.T) {
	store := newFakeStore()
	emitter := &recordingEmitter{}
	s := newTestService(t, store, WithEmitter(emitter))
	ctx := context.Background()

	camp := &Campaign{ID: id.NewCampaignID(), Name: "empty", Schedule: "@daily"}
	if err := store.SaveCampaign(ctx, camp); err != nil {
		t.Fatalf("SaveCampaign: %v", err)
	}

	s.rotate(ctx, camp.ID)
	if got := emitter.messages(); len(got) != 0 {
		t.Errorf("emitted = %v, want none", got)
	}
}

func TestStartStop_SchedulesCampaigns(t *testing.T) {
	store := newFakeStore()
	s := newTestService(t, store)
	ctx := context.Background()

	good := &Campaign{ID: id.NewCampaignID(), Name: "good", Schedule: "@every 1h"}
	bad := &Campaign{ID: id.NewCampaignID(), Name: "bad", Schedule: "not-a-schedule"}
	for _, c := range []*Campaign{good, bad} {
		if err := store.SaveCampaign(ctx, c); err != nil {
			t.Fatalf("SaveCampaign: %v", err)
		}
	}

	// Invalid schedules are skipped, not fatal.
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Second Start is a no-op.
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start (again): %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// Stop after stop is a no-op.
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop (again): %v", err)
	}
}

func TestAddCampaign_AssignsIDAndPersists(t *testing.T) {
	store := newFakeStore()
	s := newTestService(t, store)
	ctx := context.Background()

	camp := &Campaign{Name: "monsoon", Schedule: "@daily"}
	if err := s.AddCampaign(ctx, camp); err != nil {
		t.Fatalf("AddCampaign: %v", err)
	}
	if camp.ID.IsNil() {
		t.Error("AddCampaign should assign an ID")
	}
	if _, err := store.GetCampaign(ctx, camp.ID); err != nil {
		t.Errorf("campaign not persisted: %v", err)
	}
}

func TestHandleFeedMessage_Publish(t *testing.T) {
	store := newFakeStore()
	emitter := &recordingEmitter{}
	s := newTestService(t, store, WithEmitter(emitter))

	s.handleFeedMessage(context.Background(), &FeedMessage{
		Type:    MessagePublish,
		Message: "Flash sale: 40% off",
		Variant: string(VariantFlashSale),
	})

	all, err := store.ListAnnouncements(context.Background())
	if err != nil {
		t.Fatalf("ListAnnouncements: %v", err)
	}
	if len(all) != 1 || all[0].Message != "Flash sale: 40% off" {
		t.Errorf("stored = %+v", all)
	}
	if got := emitter.messages(); len(got) != 1 {
		t.Errorf("emitted = %v, want 1 event", got)
	}
}

func TestHandleFeedMessage_Revoke(t *testing.T) {
	store := newFakeStore()
	s := newTestService(t, store)
	ctx := context.Background()

	ann := &Announcement{Message: "short lived"}
	if err := s.Publish(ctx, ann); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	s.handleFeedMessage(ctx, &FeedMessage{
		Type:           MessageRevoke,
		AnnouncementID: ann.ID.String(),
	})

	if _, err := store.GetAnnouncement(ctx, ann.ID); !errors.Is(err, checkout.ErrAnnouncementNotFound) {
		t.Errorf("err = %v, want ErrAnnouncementNotFound", err)
	}
}

func TestHandleFeedMessage_IgnoresBadMessages(t *testing.T) {
	store := newFakeStore()
	s := newTestService(t, store)
	ctx := context.Background()

	// Publish without text, revoke with a bogus ID, unknown type.
	s.handleFeedMessage(ctx, &FeedMessage{Type: MessagePublish})
	s.handleFeedMessage(ctx, &FeedMessage{Type: MessageRevoke, AnnouncementID: "nope"})
	s.handleFeedMessage(ctx, &FeedMessage{Type: MessageType("mystery")})

	all, err := store.ListAnnouncements(ctx)
	if err != nil {
		t.Fatalf("ListAnnouncements: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("stored = %d announcements, want none", len(all))
	}
}

func TestAnnouncementFromMessage_Defaults(t *testing.T) {
	ann, err := announcementFromMessage(&FeedMessage{
		Type:    MessagePublish,
		Message: "hello",
	})
	if err != nil {
		t.Fatalf("announcementFromMessage: %v", err)
	}
	if ann.Variant != VariantInfo {
		t.Errorf("Variant = %q, want info default", ann.Variant)
	}
}

func TestActiveAt_Window(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Minute)
	after := now.Add(time.Minute)

	tests := []struct {
		name string
		ann  Announcement
		want bool
	}{
		{"no window", Announcement{}, true},
		{"inside window", Announcement{StartsAt: &before, EndsAt: &after}, true},
		{"not started", Announcement{StartsAt: &after}, false},
		{"ended exactly now", Announcement{EndsAt: &now}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ann.ActiveAt(now); got != tt.want {
				t.Errorf("ActiveAt = %v, want %v", got, tt.want)
			}
		})
	}
}
