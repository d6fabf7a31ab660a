package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"repair-shop-quotes/models"
)

// DefaultAutosaveDelay is the inactivity window before a draft is saved
const DefaultAutosaveDelay = 2000 * time.Millisecond

// SaveDraftFunc persists a draft cart under its key
type SaveDraftFunc func(ctx context.Context, key string, cart models.Cart) error

// Autosaver debounces draft saves per key. Each Touch restarts the key's timer;
// a save fires only after the delay passes without another Touch.
// Empty carts and carts identical to the last saved one are never saved.
type Autosaver struct {
	delay  time.Duration
	save   SaveDraftFunc
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[string]*pendingSave
	saved   map[string]string // key -> fingerprint of the last saved cart
	stopped bool
	wg      sync.WaitGroup
}

type pendingSave struct {
	timer *time.Timer
}

// NewAutosaver creates an autosaver. A non-positive delay uses DefaultAutosaveDelay.
func NewAutosaver(delay time.Duration, save SaveDraftFunc, logger *zap.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Autosaver{
		delay:   delay,
		save:    save,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]*pendingSave),
		saved:   make(map[string]string),
	}
}

// Touch records a mutation of the draft and restarts its timer.
// It reports whether a save is now pending.
func (a *Autosaver) Touch(key string, cart models.Cart) bool {
	fp := Fingerprint(cart)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return false
	}
	a.cancelLocked(key)

	if cart.IsEmpty() || a.saved[key] == fp {
		return false
	}

	snapshot := cart.Clone()
	p := &pendingSave{}
	p.timer = time.AfterFunc(a.delay, func() { a.fire(key, p, snapshot, fp) })
	a.pending[key] = p
	return true
}

// Pending reports whether a save is scheduled for the key
func (a *Autosaver) Pending(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[key]
	return ok
}

// Forget drops the pending save and saved fingerprint of a key
func (a *Autosaver) Forget(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelLocked(key)
	delete(a.saved, key)
}

// Stop clears every pending timer and waits for in-flight saves.
// No save fires after Stop returns.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	for key := range a.pending {
		a.cancelLocked(key)
	}
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
}

func (a *Autosaver) cancelLocked(key string) {
	if p, ok := a.pending[key]; ok {
		p.timer.Stop()
		delete(a.pending, key)
	}
}

func (a *Autosaver) fire(key string, p *pendingSave, cart models.Cart, fp string) {
	a.mu.Lock()
	if a.stopped || a.pending[key] != p {
		// superseded by a later Touch or cleared by Stop
		a.mu.Unlock()
		return
	}
	delete(a.pending, key)
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	if err := a.save(a.ctx, key, cart); err != nil {
		a.logger.Error("Autosave: save failed", zap.String("key", key), zap.Error(err))
		return
	}

	a.mu.Lock()
	a.saved[key] = fp
	a.mu.Unlock()
	a.logger.Debug("Autosave: saved", zap.String("key", key))
}

// Fingerprint is a stable hash of the cart contents
func Fingerprint(cart models.Cart) string {
	data, err := json.Marshal(cart)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
