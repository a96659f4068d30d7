package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VladPetriv/telegram_bot/pkg/logger"
)

// lastUpdateSuffix completes the cache key the update offset is stored under.
const lastUpdateSuffix = "-last-update"

// OffsetStore persists the update_id watermark of the last consumed update.
// A single poller is the only writer, no locking is required beyond that.
type OffsetStore interface {
	// Get returns the stored offset, zero when the key was never written.
	Get(ctx context.Context, key string) (int64, error)
	Set(ctx context.Context, key string, value int64) error
}

// Poller drives the long polling loop: it repeatedly fetches update batches
// with getUpdates, persists the offset watermark and feeds every update to
// the dispatcher sequentially. Update N+1 is not fetched until update N's
// handler fully returns.
type Poller struct {
	client     *Client
	dispatcher *Dispatcher
	store      OffsetStore
	logger     *logger.Logger

	key     string
	limit   int
	timeout int
	gap     int
	sleep   time.Duration
}

// PollerOptions represents options that are required for creating a new instance of poller.
type PollerOptions struct {
	Client     *Client
	Dispatcher *Dispatcher
	// Store keeps the update offset between poll cycles.
	// Defaults to a process-local in-memory store.
	Store  OffsetStore
	Logger *logger.Logger

	// CacheKey is a prefix of the offset cache entry. Defaults to "telegram".
	CacheKey string
	// Limit is a maximum number of updates per batch. Defaults to 100.
	Limit int
	// Timeout is a long poll hold time in seconds. Defaults to 50.
	Timeout int
	// Gap is a safety margin in seconds added to the request timeout
	// so the client always outlives the server-side hold. Defaults to 15.
	Gap int
	// Sleep is a delay in seconds between poll cycles. Defaults to 2.
	Sleep int
}

// NewPoller returns a new instance of poller.
func NewPoller(opts PollerOptions) *Poller {
	if opts.Store == nil {
		opts.Store = NewMemoryOffsetStore()
	}
	if opts.CacheKey == "" {
		opts.CacheKey = "telegram"
	}
	if opts.Limit == 0 {
		opts.Limit = 100
	}
	if opts.Timeout == 0 {
		opts.Timeout = 50
	}
	if opts.Gap == 0 {
		opts.Gap = 15
	}
	if opts.Sleep == 0 {
		opts.Sleep = 2
	}

	return &Poller{
		client:     opts.Client,
		dispatcher: opts.Dispatcher,
		store:      opts.Store,
		logger:     opts.Logger,
		key:        opts.CacheKey + lastUpdateSuffix,
		limit:      opts.Limit,
		timeout:    opts.Timeout,
		gap:        opts.Gap,
		sleep:      time.Duration(opts.Sleep) * time.Second,
	}
}

// Run loops forever until the context is canceled or a cycle fails.
// A dispatch error aborts the whole loop, external supervision
// is expected to restart the process.
func (p *Poller) Run(ctx context.Context) error {
	for {
		err := p.pollOnce(ctx)
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.sleep):
		}
	}
}

// pollOnce performs one fetch-persist-dispatch cycle. Batches arrive in
// ascending update_id order, so the offset is overwritten with the last
// element's id rather than max()-combined.
func (p *Poller) pollOnce(ctx context.Context) error {
	offset, err := p.store.Get(ctx, p.key)
	if err != nil {
		return fmt.Errorf("get last update offset: %w", err)
	}

	updates, err := p.client.GetUpdates(offset+1, p.limit, p.timeout, p.gap)
	if err != nil {
		return fmt.Errorf("get updates: %w", err)
	}

	if len(updates) == 0 {
		return nil
	}

	err = p.store.Set(ctx, p.key, updates[len(updates)-1].UpdateID)
	if err != nil {
		return fmt.Errorf("save last update offset: %w", err)
	}

	p.logger.Debug().Int("count", len(updates)).Msg("dispatching updates batch")

	for _, update := range updates {
		err := p.dispatcher.Dispatch(update)
		if err != nil {
			return fmt.Errorf("dispatch update %d: %w", update.UpdateID, err)
		}
	}

	return nil
}

// MemoryOffsetStore keeps update offsets in process memory. Offsets are
// lost on restart, which at worst replays the updates telegram still holds.
type MemoryOffsetStore struct {
	mu      sync.Mutex
	offsets map[string]int64
}

// NewMemoryOffsetStore returns a new in-memory offset store.
func NewMemoryOffsetStore() *MemoryOffsetStore {
	return &MemoryOffsetStore{
		offsets: make(map[string]int64),
	}
}

func (s *MemoryOffsetStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.offsets[key], nil
}

func (s *MemoryOffsetStore) Set(_ context.Context, key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offsets[key] = value

	return nil
}
