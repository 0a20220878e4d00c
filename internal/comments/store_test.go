package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store := NewStoreWithClient(redis.NewClient(&redis.Options{Addr: s.Addr()}))
	return store, s
}

func TestSaveAndGet(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	id := "Ventas_Ana_Garcia_Cerrar_pipeline_Q3"

	if err := store.Save(ctx, id, "Buen avance este trimestre"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	comment, found, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected comment to be found")
	}
	if comment.Comment != "Buen avance este trimestre" {
		t.Errorf("unexpected comment text: %q", comment.Comment)
	}
	if comment.CreatedAt.IsZero() || comment.LastUpdated.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestGetMissingIsNotAnError(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	defer s.Close()

	comment, found, err := store.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected found=false for missing comment")
	}
	if comment.Comment != "" {
		t.Errorf("expected zero comment, got %+v", comment)
	}
}

func TestSaveTrimsAndPreservesCreatedAt(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	id := "some-objective"

	if err := store.Save(ctx, id, "  primera versión  "); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, _, _ := store.Get(ctx, id)
	if first.Comment != "primera versión" {
		t.Errorf("expected trimmed comment, got %q", first.Comment)
	}

	if err := store.Save(ctx, id, "segunda versión"); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	second, _, _ := store.Get(ctx, id)
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("update must preserve CreatedAt: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
	if second.Comment != "segunda versión" {
		t.Errorf("unexpected updated comment: %q", second.Comment)
	}
}

func TestSaveEmptyIsDelete(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	id := "objective-with-comment"

	if err := store.Save(ctx, id, "algo"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, id, "   "); err != nil {
		t.Fatalf("empty Save failed: %v", err)
	}

	_, found, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("saving a whitespace-only comment must delete the stored one")
	}
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	defer s.Close()

	if err := store.Delete(context.Background(), "never-existed"); err != nil {
		t.Errorf("deleting a missing comment must be a no-op, got %v", err)
	}
}

func TestOfflineWritesFailFast(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.Save(ctx, "id-1", "texto"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.Close()
	// A read against the dead server flips the store offline.
	if _, _, err := store.Get(ctx, "id-1"); err != nil {
		t.Fatalf("offline Get must not error, got %v", err)
	}
	if store.Online() {
		t.Fatal("expected store to be offline after failed read")
	}

	if err := store.Save(ctx, "id-2", "texto"); !errors.Is(err, ErrOffline) {
		t.Errorf("offline Save must fail with ErrOffline, got %v", err)
	}
	if err := store.Delete(ctx, "id-1"); !errors.Is(err, ErrOffline) {
		t.Errorf("offline Delete must fail with ErrOffline, got %v", err)
	}
}

func TestOfflineReadsResolveEmpty(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	s.Close()

	comment, found, err := store.Get(context.Background(), "any-id")
	if err != nil {
		t.Fatalf("offline Get must resolve, got %v", err)
	}
	if found || comment.Comment != "" {
		t.Errorf("offline Get must resolve empty, got found=%v %+v", found, comment)
	}
}

func TestStoreRecoversAfterReconnect(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()

	// Simulate an outage.
	s.SetError("connection lost")
	_, _, _ = store.Get(ctx, "any")
	if store.Online() {
		t.Fatal("expected offline during outage")
	}

	s.SetError("")
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping after recovery failed: %v", err)
	}
	if !store.Online() {
		t.Error("expected store back online after successful ping")
	}
	if err := store.Save(ctx, "id", "texto"); err != nil {
		t.Errorf("Save after recovery failed: %v", err)
	}
}

func TestBulkGet(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	_ = store.Save(ctx, "id-a", "comentario a")
	_ = store.Save(ctx, "id-b", "comentario b")

	result := store.BulkGet(ctx, []string{"id-a", "id-b", "id-missing"}, "group:Ventas")

	if result.SelectionKey != "group:Ventas" {
		t.Errorf("expected selection key carried through, got %q", result.SelectionKey)
	}
	if len(result.Comments) != 2 {
		t.Fatalf("expected 2 found comments, got %d", len(result.Comments))
	}
	if result.Comments["id-a"].Comment != "comentario a" {
		t.Errorf("unexpected comment for id-a: %+v", result.Comments["id-a"])
	}
	if _, ok := result.Comments["id-missing"]; ok {
		t.Error("missing ids must not appear in the merged map")
	}
}

func TestBulkGetEmptyIDs(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()
	defer s.Close()

	result := store.BulkGet(context.Background(), nil, "")
	if len(result.Comments) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestBulkGetCompletesDespiteFailures(t *testing.T) {
	store, s := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	_ = store.Save(ctx, "id-a", "comentario a")
	s.Close()

	// Every read fails, but the batch still completes with an empty merge.
	result := store.BulkGet(ctx, []string{"id-a", "id-b"}, "group:Ventas")
	if len(result.Comments) != 0 {
		t.Errorf("expected no comments after total failure, got %+v", result.Comments)
	}
	if store.Online() {
		t.Error("expected store offline after failed bulk reads")
	}
}
