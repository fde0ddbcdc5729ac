package tracker

import (
	"context"
	"testing"

	"github.com/ogini-search/core/model"
)

func TestTracker_CreateAndGetOperation(t *testing.T) {
	ctx := context.Background()
	tr := New(nil)

	op, err := tr.CreateOperation(ctx, "op1", "products", 5, []string{"op1-0", "op1-1"}, 500)
	if err != nil {
		t.Fatalf("CreateOperation: %v", err)
	}
	if op.Status != model.BulkStatusIndexing {
		t.Fatalf("got status %v, want indexing", op.Status)
	}

	got, ok := tr.GetOperation("op1")
	if !ok || got.TotalBatches != 5 {
		t.Fatalf("got %+v/%v, want TotalBatches=5", got, ok)
	}
}

func TestTracker_MarkBatchIndexed_MonotoneAndCapped(t *testing.T) {
	ctx := context.Background()
	tr := New(nil)
	_, _ = tr.CreateOperation(ctx, "op1", "products", 2, nil, 200)

	for i := 0; i < 5; i++ {
		if err := tr.MarkBatchIndexed(ctx, "op1"); err != nil {
			t.Fatalf("MarkBatchIndexed: %v", err)
		}
	}

	op, _ := tr.GetOperation("op1")
	if op.IndexedBatches != 2 {
		t.Fatalf("got IndexedBatches %d, want capped at 2", op.IndexedBatches)
	}
	if op.Status != model.BulkStatusPersisting {
		t.Fatalf("got status %v, want persisting once all batches indexed", op.Status)
	}
}

func TestTracker_AllBatchesIndexedFiresExactlyOnce(t *testing.T) {
	ctx := context.Background()
	tr := New(nil)
	_, _ = tr.CreateOperation(ctx, "op1", "products", 2, nil, 200)

	fired := 0
	tr.OnAllBatchesIndexed(func(op model.BulkOperation) { fired++ })

	_ = tr.MarkBatchIndexed(ctx, "op1")
	_ = tr.MarkBatchIndexed(ctx, "op1")
	_ = tr.MarkBatchIndexed(ctx, "op1")

	if fired != 1 {
		t.Fatalf("got %d all-batches-indexed callbacks, want exactly 1", fired)
	}
}

func TestTracker_MarkBatchPersisted_CompletesOperation(t *testing.T) {
	ctx := context.Background()
	tr := New(nil)
	_, _ = tr.CreateOperation(ctx, "op1", "products", 1, nil, 100)
	_ = tr.MarkBatchIndexed(ctx, "op1")

	if err := tr.MarkBatchPersisted(ctx, "op1"); err != nil {
		t.Fatalf("MarkBatchPersisted: %v", err)
	}

	op, _ := tr.GetOperation("op1")
	if op.Status != model.BulkStatusCompleted {
		t.Fatalf("got status %v, want completed", op.Status)
	}
	if op.PersistedBatches > op.IndexedBatches {
		t.Fatalf("invariant violated: persisted %d > indexed %d", op.PersistedBatches, op.IndexedBatches)
	}
}

func TestTracker_FailedOperationDoesNotBackTransitionFromCompleted(t *testing.T) {
	ctx := context.Background()
	tr := New(nil)
	_, _ = tr.CreateOperation(ctx, "op1", "products", 1, nil, 100)
	_ = tr.MarkBatchIndexed(ctx, "op1")
	_ = tr.MarkBatchPersisted(ctx, "op1")

	if err := tr.MarkOperationFailed(ctx, "op1", "boom"); err != nil {
		t.Fatalf("MarkOperationFailed: %v", err)
	}

	op, _ := tr.GetOperation("op1")
	if op.Status != model.BulkStatusCompleted {
		t.Fatalf("got status %v, want completed to stick (no back-transition)", op.Status)
	}
}
