package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openconf/cfp-admin/internal/importer"
)

var (
	confA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	confB = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func proposal(conferenceID uuid.UUID, key string) importer.NewProposal {
	return importer.NewProposal{
		ID:           uuid.New(),
		ConferenceID: conferenceID,
		IdentityKey:  key,
		Candidate: importer.NormalizedCandidate{
			RawCandidate: importer.RawCandidate{Title: "T", SpeakerEmail: "a@example.com"},
			Duration:     importer.DurationRegular,
			Language:     importer.LanguageOther,
		},
	}
}

func TestMemorySessionCommit(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	sess, err := mem.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.CreateProposal(ctx, proposal(confA, "k1")); err != nil {
		t.Fatal(err)
	}

	// Uncommitted writes are visible inside the session only.
	if ok, _ := sess.HasIdentity(ctx, confA, "k1"); !ok {
		t.Error("session does not see its own write")
	}
	if got := len(mem.Proposals()); got != 0 {
		t.Errorf("store has %d proposals before commit", got)
	}

	if err := sess.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	if got := len(mem.Proposals()); got != 1 {
		t.Errorf("store has %d proposals after commit, want 1", got)
	}
}

func TestMemorySessionRollback(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	sess, _ := mem.Begin(ctx)
	if err := sess.CreateProposal(ctx, proposal(confA, "k1")); err != nil {
		t.Fatal(err)
	}
	if err := sess.Rollback(ctx); err != nil {
		t.Fatal(err)
	}
	if got := len(mem.Proposals()); got != 0 {
		t.Errorf("store has %d proposals after rollback", got)
	}
}

func TestMemoryIdentityScopedByConference(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	sess, _ := mem.Begin(ctx)
	if err := sess.CreateProposal(ctx, proposal(confA, "k1")); err != nil {
		t.Fatal(err)
	}
	sess.Commit(ctx)

	sess2, _ := mem.Begin(ctx)
	if ok, _ := sess2.HasIdentity(ctx, confA, "k1"); !ok {
		t.Error("committed identity not found")
	}
	if ok, _ := sess2.HasIdentity(ctx, confB, "k1"); ok {
		t.Error("identity leaked across conferences")
	}
}

// The store never enforces identity uniqueness; whether a repeated
// identity is written is the orchestrator's decision.
func TestMemoryAcceptsRepeatedIdentity(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	sess, _ := mem.Begin(ctx)
	if err := sess.CreateProposal(ctx, proposal(confA, "k1")); err != nil {
		t.Fatal(err)
	}
	if err := sess.CreateProposal(ctx, proposal(confA, "k1")); err != nil {
		t.Errorf("CreateProposal() error = %v, want repeated identity accepted", err)
	}
	sess.Commit(ctx)

	if got := len(mem.Proposals()); got != 2 {
		t.Errorf("store has %d proposals, want 2", got)
	}
}

func TestMemoryListImports(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	sess, _ := mem.Begin(ctx)
	base := time.Now()
	for i := 0; i < 3; i++ {
		sess.RecordImport(ctx, ImportLogEntry{
			ID:        uuid.New(),
			FileName:  "export.csv",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	sess.Commit(ctx)

	entries, err := mem.ListImports(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want limit 2", len(entries))
	}
	if !entries[0].CreatedAt.After(entries[1].CreatedAt) {
		t.Error("entries not in newest-first order")
	}
}
