// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package embedding implements the batched text-embedding service used by
// the semantic-caption-similarity indicator: a cache- and dedup-aware
// front end over a ModelTransport, producing L2-normalized 384-dim
// vectors with cosine similarity computable as a plain dot product.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cibwatch/internal/cache"
	"github.com/tomtom215/cibwatch/internal/logging"
	"github.com/tomtom215/cibwatch/internal/metrics"
)

// hotCacheTTL is long enough that, in practice, entries never expire
// within a single engine process's lifetime (spec §4.2); TTL-based
// eviction exists only as a safety valve against unbounded growth
// across an exceptionally long-lived serve-mode process.
const hotCacheTTL = 24 * time.Hour

// Dim is the fixed output dimensionality of every embedding vector.
const Dim = 384

// ErrModelUnavailable is returned when the underlying model transport
// cannot serve a request (load failure, dead backend, open breaker).
// Callers must treat this as terminal for the run (spec §7).
var ErrModelUnavailable = errors.New("embedding: model unavailable")

// ErrShapeMismatch is returned when a transport's response cannot be
// interpreted as exactly len(texts) vectors of equal length Dim.
// Callers must treat this as terminal for the run (spec §7).
var ErrShapeMismatch = errors.New("embedding: shape mismatch")

// ModelTransport is the out-of-scope external collaborator that performs
// the actual model fetch/inference. It receives a batch of texts and
// returns one raw vector per text, in the same order, before any
// normalization or shape validation. Every vector must have length Dim;
// Service rejects any other length with ErrShapeMismatch and normalizes.
type ModelTransport interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Service is the embed_batch contract of spec §4.2: batched text to
// L2-normalized 384-dim vectors, with an in-memory cache, in-flight
// request deduplication, and batching of transport calls.
type Service struct {
	transport ModelTransport
	breaker   *gobreaker.CircuitBreaker[[][]float32]
	batchSize int
	cold      CacheBackend

	mu       sync.Mutex
	cache    *cache.Cache
	inFlight map[string]*inFlightCall

	cacheHits   int64
	cacheMisses int64
	batches     int64
}

type inFlightCall struct {
	done chan struct{}
	vec  []float32
	err  error
}

// Option configures a Service at construction time.
type Option func(*Service)

// WithBatchSize overrides the default transport batch size of 8.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithColdCache attaches a persistent second-tier cache consulted on a
// hot-cache miss and populated after every successful transport batch.
// Without this option the cold tier is a no-op and the cache lives only
// as long as the Service (spec §4.2's "lifetime of the engine").
func WithColdCache(backend CacheBackend) Option {
	return func(s *Service) {
		if backend != nil {
			s.cold = backend
		}
	}
}

// NewService wraps transport in a circuit breaker and cache. The breaker
// opens after 5 consecutive transport failures and probes again after 30s.
func NewService(transport ModelTransport, opts ...Option) *Service {
	s := &Service{
		transport: transport,
		batchSize: 8,
		cold:      noopCacheBackend{},
		cache:     cache.New(hotCacheTTL),
		inFlight:  make(map[string]*inFlightCall),
	}

	settings := gobreaker.Settings{
		Name:        "embedding-transport",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("embedding transport circuit breaker state change")
		},
	}
	s.breaker = gobreaker.NewCircuitBreaker[[][]float32](settings)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EmbedBatch returns one L2-normalized vector per input text, in order.
// Identical texts (including repeats within the same call) share one
// transport request; previously-seen texts are served from cache. A
// ModelTransport error is wrapped as ErrModelUnavailable; an
// inconsistent response shape yields ErrShapeMismatch. Both are terminal.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	s.mu.Lock()
	var toFetch []string
	fetchIdx := make(map[string][]int)
	waitOn := make(map[string]*inFlightCall)
	for i, t := range texts {
		if raw, ok := s.cache.Get(t); ok {
			s.cacheHits++
			metrics.EmbeddingCacheHits.Inc()
			out[i] = raw.([]float32)
			continue
		}
		if call, ok := s.inFlight[t]; ok {
			waitOn[t] = call
			fetchIdx[t] = append(fetchIdx[t], i)
			continue
		}
		if v, ok, err := s.cold.Get(ctx, t); err == nil && ok {
			s.cacheHits++
			metrics.EmbeddingCacheHits.Inc()
			s.cache.Set(t, v)
			out[i] = v
			continue
		}
		s.cacheMisses++
		metrics.EmbeddingCacheMisses.Inc()
		if _, seen := fetchIdx[t]; !seen {
			toFetch = append(toFetch, t)
		}
		fetchIdx[t] = append(fetchIdx[t], i)
	}

	pending := make(map[string]*inFlightCall, len(toFetch))
	for _, t := range toFetch {
		call := &inFlightCall{done: make(chan struct{})}
		s.inFlight[t] = call
		pending[t] = call
	}
	s.mu.Unlock()

	if len(toFetch) > 0 {
		s.runBatches(ctx, toFetch, pending)
	}

	for t, call := range pending {
		<-call.done
		if call.err != nil {
			return nil, call.err
		}
		for _, i := range fetchIdx[t] {
			out[i] = call.vec
		}
	}
	for t, call := range waitOn {
		<-call.done
		if call.err != nil {
			return nil, call.err
		}
		for _, i := range fetchIdx[t] {
			out[i] = call.vec
		}
	}

	for _, v := range out {
		if v == nil {
			return nil, fmt.Errorf("embedding: %w: missing vector in output", ErrShapeMismatch)
		}
	}
	return out, nil
}

func (s *Service) runBatches(ctx context.Context, texts []string, pending map[string]*inFlightCall) {
	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		s.mu.Lock()
		s.batches++
		s.mu.Unlock()

		batchStart := time.Now()
		vecs, err := s.breaker.Execute(func() ([][]float32, error) {
			raw, terr := s.transport.Embed(ctx, batch)
			if terr != nil {
				return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, terr)
			}
			if len(raw) != len(batch) {
				return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrShapeMismatch, len(raw), len(batch))
			}
			normalized := make([][]float32, len(raw))
			for i, v := range raw {
				if len(v) != Dim {
					return nil, fmt.Errorf("%w: vector at index %d has length %d, want %d", ErrShapeMismatch, i, len(v), Dim)
				}
				normalized[i] = l2Normalize(v)
			}
			return normalized, nil
		})
		metrics.EmbeddingBatches.Inc()
		metrics.EmbeddingBatchDuration.Observe(time.Since(batchStart).Seconds())

		s.mu.Lock()
		for i, t := range batch {
			call := pending[t]
			if err != nil {
				call.err = classifyErr(err)
			} else {
				call.vec = vecs[i]
				s.cache.Set(t, vecs[i])
				if cerr := s.cold.Set(ctx, t, vecs[i]); cerr != nil {
					logging.Warn().Err(cerr).Msg("embedding cold cache write failed")
				}
			}
			delete(s.inFlight, t)
			close(call.done)
		}
		s.mu.Unlock()
	}
}

func classifyErr(err error) error {
	if errors.Is(err, ErrShapeMismatch) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
}

func l2Normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// CosineSimilarity is the dot product of two unit-normalized vectors.
func CosineSimilarity(a, b []float32) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Stats is a snapshot of cache behavior, exported for Prometheus gauges.
type Stats struct {
	CacheHits   int64
	CacheMisses int64
	Batches     int64
}

// Snapshot returns the current cache/batch counters.
func (s *Service) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{CacheHits: s.cacheHits, CacheMisses: s.cacheMisses, Batches: s.batches}
}

// ClearCache empties both the hot in-memory tier and the cold tier, if
// one is configured. Intended for long-lived serve-mode processes that
// need to drop stale cached captions between unrelated batches.
func (s *Service) ClearCache(ctx context.Context) error {
	s.cache.Clear()
	return s.cold.Clear(ctx)
}
