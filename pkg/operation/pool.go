// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"

	"github.com/walteh/extsort/pkg/scan"
	"github.com/walteh/extsort/pkg/status"
	"golang.org/x/sync/errgroup"
)

// 🏃 Pool runs copies on a fixed number of workers
type Pool struct {
	copier  *Copier
	tracker *status.Tracker
	workers int
}

// 🏗️ NewPool creates a new pool; workers below one are treated as one
func NewPool(copier *Copier, tracker *status.Tracker, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		copier:  copier,
		tracker: tracker,
		workers: workers,
	}
}

// 🏃 Run copies every ref and waits for all of them before summarizing.
//
// Individual failures never stop the pool; they are counted in the summary.
func (p *Pool) Run(ctx context.Context, refs []scan.FileRef) status.Summary {
	p.tracker.StartOperation(len(refs))

	var g errgroup.Group
	g.SetLimit(p.workers)

	for _, ref := range refs {
		g.Go(func() error {
			p.tracker.Track(p.copier.Copy(ctx, ref))
			return nil
		})
	}

	// workers never return errors
	_ = g.Wait()

	return p.tracker.FinishOperation()
}
