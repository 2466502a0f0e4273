package announce

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/backoff"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// Emitter dispatches announcement lifecycle events. Satisfied by
// hook.Registry.
type Emitter interface {
	EmitAnnouncementPublished(ctx context.Context, annID id.AnnouncementID, message string)
}

// Service runs the announcement subsystem: it consumes the live feed,
// rotates campaign banners on their cron schedules, and persists
// everything through the store.
type Service struct {
	store   Store
	emitter Emitter
	logger  *slog.Logger
	codec   Codec
	delay   backoff.Strategy
	feedURL string

	mu       sync.Mutex
	started  bool
	cron     *cron.Cron
	feed     *Feed
	cancel   context.CancelFunc
	feedDone chan struct{}
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEmitter sets the lifecycle event emitter.
func WithEmitter(e Emitter) ServiceOption {
	return func(s *Service) { s.emitter = e }
}

// WithLogger sets the structured logger for the service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithFeedURL sets the WebSocket URL of the live feed. Empty disables it.
func WithFeedURL(url string) ServiceOption {
	return func(s *Service) { s.feedURL = url }
}

// WithCodec sets the feed wire codec.
func WithCodec(c Codec) ServiceOption {
	return func(s *Service) { s.codec = c }
}

// WithBackoff sets the reconnect delay strategy for the feed.
func WithBackoff(d backoff.Strategy) ServiceOption {
	return func(s *Service) { s.delay = d }
}

// NewService creates the announcement service.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, checkout.ErrNoStore
	}
	s := &Service{
		store:  store,
		logger: slog.Default(),
		codec:  &JSONCodec{},
		delay:  backoff.DefaultStrategy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start schedules all stored campaigns and, when a feed URL is
// configured, begins consuming the live feed in the background.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	campaigns, err := s.store.ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("announce: list campaigns: %w", err)
	}

	s.cron = cron.New()
	for _, c := range campaigns {
		if err := s.schedule(c); err != nil {
			s.logger.Warn("skipping campaign with invalid schedule",
				slog.String("campaign", c.ID.String()),
				slog.String("schedule", c.Schedule),
				slog.String("error", err.Error()),
			)
		}
	}
	s.cron.Start()

	if s.feedURL != "" {
		runCtx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.feed = NewFeed(s.feedURL, s.codec, s.delay, s.logger, s.handleFeedMessage)
		s.feedDone = make(chan struct{})
		go func() {
			defer close(s.feedDone)
			s.feed.Run(runCtx)
		}()
	}

	s.started = true
	s.logger.Info("announcement service started",
		slog.Int("campaigns", len(campaigns)),
		slog.Bool("feed", s.feedURL != ""),
	)
	return nil
}

// Stop halts campaign rotation and the feed, waiting for in-flight
// cron jobs and the feed loop to finish or the context to expire.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false

	if s.feed != nil {
		s.cancel()
		_ = s.feed.Close()
		select {
		case <-s.feedDone:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// AddCampaign persists a campaign and, when the service is running,
// schedules its rotation immediately.
func (s *Service) AddCampaign(ctx context.Context, c *Campaign) error {
	if c.ID.IsNil() {
		c.ID = id.NewCampaignID()
	}
	if c.CreatedAt.IsZero() {
		c.Entity = checkout.NewEntity()
	}
	if err := s.store.SaveCampaign(ctx, c); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		if err := s.schedule(c); err != nil {
			return fmt.Errorf("announce: schedule campaign %s: %w", c.ID, err)
		}
	}
	return nil
}

// schedule registers a campaign's rotation on the cron runner.
// Caller holds s.mu.
func (s *Service) schedule(c *Campaign) error {
	campID := c.ID
	_, err := s.cron.AddFunc(c.Schedule, func() {
		s.rotate(context.Background(), campID)
	})
	return err
}

// rotate advances a campaign's cursor and publishes the next banner in
// its rotation. Failures are logged; rotation resumes on the next tick.
func (s *Service) rotate(ctx context.Context, campID id.CampaignID) {
	camp, err := s.store.GetCampaign(ctx, campID)
	if err != nil {
		s.logger.Warn("campaign rotation: load failed",
			slog.String("campaign", campID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(camp.Announcements) == 0 {
		return
	}

	annID := camp.Announcements[camp.NextIndex%len(camp.Announcements)]
	camp.NextIndex = (camp.NextIndex + 1) % len(camp.Announcements)
	camp.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveCampaign(ctx, camp); err != nil {
		s.logger.Warn("campaign rotation: save failed",
			slog.String("campaign", campID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	ann, err := s.store.GetAnnouncement(ctx, annID)
	if err != nil {
		s.logger.Warn("campaign rotation: announcement missing",
			slog.String("campaign", campID.String()),
			slog.String("announcement", annID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("campaign rotated",
		slog.String("campaign", camp.Name),
		slog.String("announcement", ann.ID.String()),
	)
	if s.emitter != nil {
		s.emitter.EmitAnnouncementPublished(ctx, ann.ID, ann.Message)
	}
}

// Publish persists an announcement and notifies hooks. A nil ID is
// assigned a fresh one.
func (s *Service) Publish(ctx context.Context, a *Announcement) error {
	if a.ID.IsNil() {
		a.ID = id.NewAnnouncementID()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	if err := s.store.SaveAnnouncement(ctx, a); err != nil {
		return err
	}
	if s.emitter != nil {
		s.emitter.EmitAnnouncementPublished(ctx, a.ID, a.Message)
	}
	return nil
}

// Revoke removes an announcement so it no longer appears in listings.
func (s *Service) Revoke(ctx context.Context, annID id.AnnouncementID) error {
	return s.store.DeleteAnnouncement(ctx, annID)
}

// Active returns announcements visible at now, highest priority first,
// excluding those the session has dismissed. An empty sessionKey skips
// dismissal filtering.
func (s *Service) Active(ctx context.Context, sessionKey string, now time.Time) ([]*Announcement, error) {
	all, err := s.store.ListAnnouncements(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*Announcement, 0, len(all))
	for _, a := range all {
		if !a.ActiveAt(now) {
			continue
		}
		if sessionKey != "" {
			dismissed, err := s.store.IsDismissed(ctx, sessionKey, a.ID)
			if err != nil {
				return nil, err
			}
			if dismissed {
				continue
			}
		}
		active = append(active, a)
	}
	return active, nil
}

// Dismiss records that a session dismissed an announcement.
func (s *Service) Dismiss(ctx context.Context, sessionKey string, annID id.AnnouncementID) error {
	if _, err := s.store.GetAnnouncement(ctx, annID); err != nil {
		return err
	}
	return s.store.SaveDismissal(ctx, sessionKey, annID)
}

// handleFeedMessage translates a feed message into a store mutation.
func (s *Service) handleFeedMessage(ctx context.Context, msg *FeedMessage) {
	switch msg.Type {
	case MessagePublish:
		ann, err := announcementFromMessage(msg)
		if err != nil {
			s.logger.Warn("announcement feed: bad publish message", slog.String("error", err.Error()))
			return
		}
		if err := s.Publish(ctx, ann); err != nil {
			s.logger.Warn("announcement feed: publish failed",
				slog.String("announcement", ann.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	case MessageRevoke:
		annID, err := id.ParseAnnouncementID(msg.AnnouncementID)
		if err != nil {
			s.logger.Warn("announcement feed: bad revoke message", slog.String("error", err.Error()))
			return
		}
		if err := s.Revoke(ctx, annID); err != nil {
			s.logger.Warn("announcement feed: revoke failed",
				slog.String("announcement", annID.String()),
				slog.String("error", err.Error()),
			)
		}
	case MessagePing:
		// Handled in the feed read loop.
	default:
		s.logger.Warn("announcement feed: unknown message type", slog.String("type", string(msg.Type)))
	}
}

// announcementFromMessage builds an Announcement from a publish
// message. A missing ID is tolerated; Publish assigns one.
func announcementFromMessage(msg *FeedMessage) (*Announcement, error) {
	ann := &Announcement{
		Message:  msg.Message,
		Href:     msg.Href,
		Variant:  Variant(msg.Variant),
		Priority: msg.Priority,
		StartsAt: msg.StartsAt,
		EndsAt:   msg.EndsAt,
	}
	if ann.Message == "" {
		return nil, fmt.Errorf("announce: publish message without text")
	}
	if ann.Variant == "" {
		ann.Variant = VariantInfo
	}
	if msg.AnnouncementID != "" {
		annID, err := id.ParseAnnouncementID(msg.AnnouncementID)
		if err != nil {
			return nil, err
		}
		ann.ID = annID
	}
	return ann, nil
}
