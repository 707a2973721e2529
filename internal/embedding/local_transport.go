// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package embedding

import (
	"context"
	"hash/fnv"
	"math/rand"
)

// LocalTransport is a deterministic, model-free ModelTransport used by
// tests and by both the serve and analyze commands. It derives a pseudo-random Dim-length
// vector from a hash of each text, so identical text always produces the
// identical raw vector and distinct texts produce distinct vectors.
type LocalTransport struct {
	Fail        bool
	ShapeBroken bool
}

// Embed implements ModelTransport.
func (t *LocalTransport) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if t.Fail {
		return nil, errModelDown
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if t.ShapeBroken {
			out[i] = make([]float32, Dim-1)
			continue
		}
		out[i] = deterministicVector(text)
	}
	return out, nil
}

var errModelDown = errLocalTransport("local transport unavailable")

type errLocalTransport string

func (e errLocalTransport) Error() string { return string(e) }

func deterministicVector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	r := rand.New(rand.NewSource(int64(h.Sum64())))

	v := make([]float32, Dim)
	for i := range v {
		v[i] = float32(r.NormFloat64())
	}
	return v
}
