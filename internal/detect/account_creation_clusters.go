// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package detect

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/cibwatch/internal/temporal"
)

const creationClusterWindow = 86400

// AccountCreationClusterDetector implements indicator 10: groups of
// authors whose accounts were created within the same 24-hour window.
type AccountCreationClusterDetector struct{}

func (d *AccountCreationClusterDetector) Name() string { return "account_creation_clusters" }

func (d *AccountCreationClusterDetector) Run(ctx context.Context, ds *Dataset, params Params, timeWindow time.Duration, ev *Evidence) error {
	created := make(map[string]int64)
	for _, authorID := range ds.AuthorIDs {
		for _, p := range ds.PostsByUser[authorID] {
			if p.AccountCreatedAt != nil {
				created[authorID] = *p.AccountCreatedAt
				break
			}
		}
	}
	if len(created) == 0 {
		return nil
	}

	ids := make([]string, 0, len(created))
	for id := range created {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if created[ids[i]] != created[ids[j]] {
			return created[ids[i]] < created[ids[j]]
		}
		return ids[i] < ids[j]
	})

	ts := make([]int64, len(ids))
	for i, id := range ids {
		ts[i] = created[id]
	}

	clusters := temporal.ClusterTimestamps(ids, ts, creationClusterWindow, params.ClusterSize)
	for _, cluster := range clusters {
		ev.CreationClusters = append(ev.CreationClusters, cluster)
		for _, authorID := range cluster {
			ev.Flag(authorID)
		}
	}
	return nil
}
