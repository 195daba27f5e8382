package compliance

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tendermatrix/tendermatrix/internal/requirements"
)

// Progress receives monotonically increasing completion counts during matrix
// construction, with a label describing the cell just finished.
type Progress func(completed, total int, label string)

// Builder runs the classifier over the full requirement x proposal grid.
// Cells are independent, so they may run concurrently; results are written
// by (row, column) index and ordering never depends on execution order.
type Builder struct {
	classifier *Classifier
	// Concurrency bounds the number of classifications in flight. 1
	// serializes all calls, the safe default for backends that do not
	// tolerate concurrent requests.
	Concurrency int
	// FailFast aborts the build on the first failed classification.
	// Otherwise a failed cell is marked Not Complied with an error reason
	// and the build completes.
	FailFast bool
	// OnProgress, when set, is called after every finished cell.
	OnProgress Progress

	log *zap.Logger
}

// NewBuilder creates a builder with serialized execution.
func NewBuilder(classifier *Classifier, logger *zap.Logger) *Builder {
	return &Builder{
		classifier:  classifier,
		Concurrency: 1,
		log:         logger,
	}
}

// Build classifies every requirement against every proposal and returns the
// complete matrix. With FailFast disabled, cells whose classification failed
// carry Not Complied, a "classification failed" reason and a non-nil Err;
// the count is logged so no failure passes silently.
func (b *Builder) Build(ctx context.Context, reqs []requirements.Requirement, proposals []Proposal) (*Matrix, error) {
	matrix := &Matrix{Rows: make([][]Verdict, len(reqs))}
	for i := range matrix.Rows {
		matrix.Rows[i] = make([]Verdict, len(proposals))
	}

	total := len(reqs) * len(proposals)
	if total == 0 {
		return matrix, nil
	}

	concurrency := b.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		failed    int
		firstErr  error
	)
	sem := make(chan struct{}, concurrency)

	for ri := range reqs {
		for pi := range proposals {
			wg.Add(1)
			sem <- struct{}{}

			go func(ri, pi int) {
				defer wg.Done()
				defer func() { <-sem }()

				req := reqs[ri]
				prop := proposals[pi]

				verdict, err := b.classifier.Classify(ctx, req, prop.Text)

				mu.Lock()
				defer mu.Unlock()

				if err != nil {
					if b.FailFast {
						if firstErr == nil {
							firstErr = err
							cancel()
						}
						return
					}
					verdict = Verdict{
						RequirementID: req.ID,
						Status:        StatusNotComplied,
						Reason:        fmt.Sprintf("classification failed: %v", err),
						Err:           err,
					}
					failed++
				}

				verdict.ProposalIndex = pi
				matrix.Rows[ri][pi] = verdict

				completed++
				if b.OnProgress != nil {
					label := fmt.Sprintf("Evaluating %s for requirement %d/%d", prop.Name, ri+1, len(reqs))
					b.OnProgress(completed, total, label)
				}
			}(ri, pi)
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("matrix build aborted: %w", firstErr)
	}

	if failed > 0 {
		b.log.Warn("some classifications failed and were marked not complied",
			zap.Int("failed_cells", failed),
			zap.Int("total_cells", total))
	}

	return matrix, nil
}
