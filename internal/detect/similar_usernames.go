// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cibwatch/internal/stats"
)

// SimilarUsernameDetector implements indicator 3: clusters of authors
// whose handles are near-duplicates under edit-distance similarity.
type SimilarUsernameDetector struct{}

func (d *SimilarUsernameDetector) Name() string { return "similar_usernames" }

func (d *SimilarUsernameDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	ids := make([]string, 0, len(ds.UsernameIndex))
	for id, handle := range ds.UsernameIndex {
		if len(handle) >= 4 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			idA, idB := ids[i], ids[j]
			ha, hb := ds.UsernameIndex[idA], ds.UsernameIndex[idB]
			if stats.LevenshteinSimilarity(ha, hb) < params.UsernameThreshold {
				continue
			}

			pair := []string{ha, hb}
			sort.Strings(pair)
			key := strings.Join(pair, ",")

			group, ok := ev.UsernameGroups[key]
			if !ok {
				group = &UsernameGroup{Key: key, Users: make(map[string]struct{})}
				ev.UsernameGroups[key] = group
			}
			group.Users[idA] = struct{}{}
			group.Users[idB] = struct{}{}
		}
	}

	for key, group := range ev.UsernameGroups {
		if len(group.Users) < params.MinUsernameGroupSize {
			delete(ev.UsernameGroups, key)
			continue
		}
		for authorID := range group.Users {
			ev.Flag(authorID)
		}
	}
	return nil
}
