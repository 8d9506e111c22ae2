// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Run identifies one fetch invocation. It tags snapshots and exported
// rows so results from different runs can be told apart.
type Run struct {
	ID        string    `json:"run_id" yaml:"run_id"`
	Term      string    `json:"term" yaml:"term"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}
