package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	OperationAuth   = "auth"
	OperationUpload = "upload"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitManager manages rate limiters with lifecycle control
type RateLimitManager struct {
	visitors   map[string]*visitor
	visitorsMu sync.RWMutex
	critical   map[string]map[string]*visitor
	criticalMu sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewRateLimitManager creates a new rate limit manager with context-based lifecycle
func NewRateLimitManager(ctx context.Context) *RateLimitManager {
	managerCtx, cancel := context.WithCancel(ctx)

	m := &RateLimitManager{
		visitors: make(map[string]*visitor),
		critical: map[string]map[string]*visitor{
			OperationAuth:   make(map[string]*visitor),
			OperationUpload: make(map[string]*visitor),
		},
		ctx:    managerCtx,
		cancel: cancel,
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

func newLimiter(requestsPerWindow int, windowSeconds int) *rate.Limiter {
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	limitPerSecond := float64(requestsPerWindow) / float64(windowSeconds)
	limit := rate.Limit(limitPerSecond)
	if limitPerSecond <= 0 {
		limit = rate.Inf
	}

	return rate.NewLimiter(limit, requestsPerWindow)
}

// GetVisitor retrieves or creates a rate limiter for the given IP
func (m *RateLimitManager) GetVisitor(ip string, requestsPerWindow int, windowSeconds int) *rate.Limiter {
	if requestsPerWindow <= 0 {
		return nil
	}

	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()

	v, exists := m.visitors[ip]
	if !exists {
		limiter := newLimiter(requestsPerWindow, windowSeconds)
		m.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// GetCriticalOperationLimiter retrieves or creates a rate limiter for an
// operation with its own, stricter budget.
func (m *RateLimitManager) GetCriticalOperationLimiter(ip string, operationType string, requestsPerWindow int, windowSeconds int) *rate.Limiter {
	if requestsPerWindow <= 0 {
		return nil
	}

	m.criticalMu.Lock()
	defer m.criticalMu.Unlock()

	limiters, ok := m.critical[operationType]
	if !ok {
		return nil
	}

	v, exists := limiters[ip]
	if !exists {
		limiter := newLimiter(requestsPerWindow, windowSeconds)
		limiters[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupLoop periodically removes inactive rate limiters
func (m *RateLimitManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup(time.Now())
		}
	}
}

func (m *RateLimitManager) cleanup(now time.Time) {
	m.visitorsMu.Lock()
	for ip, v := range m.visitors {
		if now.Sub(v.lastSeen) > 3*time.Minute {
			delete(m.visitors, ip)
		}
	}
	m.visitorsMu.Unlock()

	m.criticalMu.Lock()
	for _, limiters := range m.critical {
		for ip, v := range limiters {
			if now.Sub(v.lastSeen) > 10*time.Minute {
				delete(limiters, ip)
			}
		}
	}
	m.criticalMu.Unlock()
}

// Shutdown stops the cleanup goroutine and waits for it to finish
func (m *RateLimitManager) Shutdown() error {
	m.cancel()
	m.wg.Wait()
	return nil
}
