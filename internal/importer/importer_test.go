package importer_test

// Orchestrator tests run the full pipeline against the in-memory store,
// one session per uploaded file, the way the HTTP handler drives it.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/openconf/cfp-admin/internal/importer"
	"github.com/openconf/cfp-admin/internal/store"
)

var testTarget = importer.Target{
	ConferenceID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
	OwnerID:      uuid.MustParse("22222222-2222-2222-2222-222222222222"),
}

func csvHeader(t *testing.T, format importer.Format) string {
	t.Helper()
	for _, f := range importer.Formats() {
		if f.Format == format {
			return f.Header
		}
	}
	t.Fatalf("no header for format %q", format)
	return ""
}

// customCSV builds a valid 13-column export with one row per (id, title,
// email) triple.
func customCSV(t *testing.T, rows ...[3]string) string {
	var b strings.Builder
	b.WriteString(csvHeader(t, importer.FormatCustomCSV))
	b.WriteByte('\n')
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s,Abstract,Details,20 minutes,Speaker,%s,handle,Bio,,,GopherCon,2026-01-15\n",
			r[0], r[1], r[2])
	}
	return b.String()
}

// runImport opens a session, imports data, and commits on success.
func runImport(t *testing.T, mem *store.Memory, data string, opts importer.Options) (*importer.ImportResult, error) {
	t.Helper()
	ctx := context.Background()

	sess, err := mem.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Rollback(ctx)

	result, err := importer.New(sess).Import(ctx, []byte(data), testTarget, opts)
	if err != nil {
		return result, err
	}
	if err := sess.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	return result, nil
}

func TestImportCustomCSV(t *testing.T) {
	mem := store.NewMemory()
	data := customCSV(t,
		[3]string{"1", "Talk one", "a@example.com"},
		[3]string{"2", "Talk two", "b@example.com"},
		[3]string{"3", "Talk three", "c@example.com"},
	)

	result, err := runImport(t, mem, data, importer.Options{})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Format != importer.FormatCustomCSV {
		t.Errorf("Format = %q", result.Format)
	}
	if result.Imported != 3 || result.Skipped != 0 || len(result.RowErrors) != 0 {
		t.Errorf("imported/skipped/errors = %d/%d/%d, want 3/0/0",
			result.Imported, result.Skipped, len(result.RowErrors))
	}
	if result.ImportID == "" {
		t.Error("ImportID not assigned")
	}
	if got := len(mem.Proposals()); got != 3 {
		t.Errorf("committed %d proposals, want 3", got)
	}
	for _, p := range mem.Proposals() {
		if p.ConferenceID != testTarget.ConferenceID || p.OwnerID != testTarget.OwnerID {
			t.Errorf("proposal carries wrong target: %v/%v", p.ConferenceID, p.OwnerID)
		}
		if p.Candidate.Duration != importer.DurationRegular {
			t.Errorf("Duration = %q, want regular", p.Candidate.Duration)
		}
	}
}

// Importing the same file twice with duplicate skipping is stable: the
// second run changes nothing.
func TestImportDedupAcrossRuns(t *testing.T) {
	mem := store.NewMemory()
	data := customCSV(t,
		[3]string{"1", "Talk one", "a@example.com"},
		[3]string{"2", "Talk two", "b@example.com"},
	)
	opts := importer.Options{SkipDuplicates: true}

	if _, err := runImport(t, mem, data, opts); err != nil {
		t.Fatal(err)
	}
	second, err := runImport(t, mem, data, opts)
	if err != nil {
		t.Fatal(err)
	}

	if second.Imported != 0 || second.Skipped != 2 {
		t.Errorf("second run imported/skipped = %d/%d, want 0/2", second.Imported, second.Skipped)
	}
	if got := len(mem.Proposals()); got != 2 {
		t.Errorf("committed %d proposals, want 2", got)
	}
}

// A duplicate inside one file is visible to later rows of the same
// batch, even before anything is committed.
func TestImportDedupInBatch(t *testing.T) {
	mem := store.NewMemory()
	data := customCSV(t,
		[3]string{"1", "Talk one", "a@example.com"},
		[3]string{"1", "Talk one", "a@example.com"},
	)

	result, err := runImport(t, mem, data, importer.Options{SkipDuplicates: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || result.Skipped != 1 {
		t.Errorf("imported/skipped = %d/%d, want 1/1", result.Imported, result.Skipped)
	}
}

// Dedup is opt-in: without the skipDuplicates option, identical rows in
// one file are all imported.
func TestImportDuplicatesKeptWithoutSkip(t *testing.T) {
	mem := store.NewMemory()
	data := customCSV(t,
		[3]string{"1", "Talk one", "a@example.com"},
		[3]string{"1", "Talk one", "a@example.com"},
	)

	result, err := runImport(t, mem, data, importer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 2 || result.Skipped != 0 || len(result.RowErrors) != 0 {
		t.Fatalf("imported/skipped/errors = %d/%d/%d, want 2/0/0",
			result.Imported, result.Skipped, len(result.RowErrors))
	}
	if got := len(mem.Proposals()); got != 2 {
		t.Errorf("committed %d proposals, want 2", got)
	}
}

func TestImportGoogleFormPartialFailure(t *testing.T) {
	mem := store.NewMemory()

	header := "タイムスタンプ,Email,Your Name,Title,Abstract,Detail,Duration,Language,Bio,SNS,Expertise,Experience,Location,Travel,Icon"
	rows := []string{
		header,
		"2026/01/15,a@example.com,Alice,Talk one,,,Lightning (5min),English,,,,,,,",
		"2026/01/15,,Bob,Talk two,,,,,,,,,,,",        // missing email
		"2026/01/15,c@example.com,Carol,Talk three,,,20min,Japanese,,,,,,,",
	}
	data := strings.Join(rows, "\n")

	result, err := runImport(t, mem, data, importer.Options{})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Format != importer.FormatGoogleFormCSV {
		t.Errorf("Format = %q", result.Format)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if len(result.RowErrors) != 1 {
		t.Fatalf("RowErrors = %+v, want exactly one", result.RowErrors)
	}
	// Row numbers are 1-based and count the header line.
	if re := result.RowErrors[0]; re.Row != 3 || !strings.Contains(re.Reason, "Email") {
		t.Errorf("RowError = %+v, want row 3 missing Email", re)
	}
}

// Row numbers in errors are logical: blank physical lines produce no
// row and do not advance the count.
func TestImportRowNumbersSkipBlankLines(t *testing.T) {
	mem := store.NewMemory()
	data := csvHeader(t, importer.FormatCustomCSV) +
		"\n1,Talk one,,,,Alice,a@example.com,,,,,," +
		"\n\n" +
		"\n2,,,,,Bob,b@example.com,,,,,,"

	result, err := runImport(t, mem, data, importer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || len(result.RowErrors) != 1 {
		t.Fatalf("imported/errors = %d/%d, want 1/1", result.Imported, len(result.RowErrors))
	}
	// The bad row sits on physical line 5 but is logical row 3.
	if re := result.RowErrors[0]; re.Row != 3 || !strings.Contains(re.Reason, "Title") {
		t.Errorf("RowError = %+v, want logical row 3 missing Title", re)
	}
}

func TestImportPaperCallJSON(t *testing.T) {
	mem := store.NewMemory()
	data := `[
		{"name":"Alice","email":"a@example.com","title":"Talk one","talk_format":"Lightning Talk"},
		{"name":"Bob","email":"b@example.com","title":"Talk two","talk_format":"Talk (20 minutes)"}
	]`

	result, err := runImport(t, mem, data, importer.Options{})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Format != importer.FormatPaperCallJSON || result.Imported != 2 {
		t.Errorf("format/imported = %q/%d", result.Format, result.Imported)
	}

	durations := map[string]importer.TalkDuration{}
	for _, p := range mem.Proposals() {
		durations[p.Candidate.Title] = p.Candidate.Duration
	}
	if durations["Talk one"] != importer.DurationLightning || durations["Talk two"] != importer.DurationRegular {
		t.Errorf("durations = %v", durations)
	}
}

// The PaperCall CSV and JSON exports of the same submission share a
// synthesized source ID, so importing both keeps one copy.
func TestImportCrossFormatDedup(t *testing.T) {
	mem := store.NewMemory()

	csvRow := make([]string, 21)
	csvRow[0] = "Alice"
	csvRow[1] = "a@example.com"
	csvRow[10] = "Talk one"
	csvData := csvHeader(t, importer.FormatStandardCSV) + "\n" + strings.Join(csvRow, ",")

	if _, err := runImport(t, mem, csvData, importer.Options{SkipDuplicates: true}); err != nil {
		t.Fatal(err)
	}

	jsonData := `[{"name":"Alice","email":"a@example.com","title":"Talk one"}]`
	result, err := runImport(t, mem, jsonData, importer.Options{SkipDuplicates: true})
	if err != nil {
		t.Fatal(err)
	}

	if result.Imported != 0 || result.Skipped != 1 {
		t.Errorf("imported/skipped = %d/%d, want 0/1", result.Imported, result.Skipped)
	}
	if got := len(mem.Proposals()); got != 1 {
		t.Errorf("committed %d proposals, want 1", got)
	}
}

func TestImportAmbiguousDurationWarning(t *testing.T) {
	mem := store.NewMemory()
	data := csvHeader(t, importer.FormatCustomCSV) +
		"\n1,Talk one,,,a very long session,Speaker,a@example.com,,,,,,"

	result, err := runImport(t, mem, data, importer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", result.Imported)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Reason, "defaulted") {
		t.Errorf("Warnings = %+v, want one defaulted-duration warning", result.Warnings)
	}
}

func TestImportFatalErrors(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	t.Run("empty file", func(t *testing.T) {
		_, err := runImport(t, mem, "", importer.Options{})
		if !errors.Is(err, importer.ErrEmptyFile) {
			t.Errorf("error = %v, want ErrEmptyFile", err)
		}
	})

	t.Run("unrecognized header", func(t *testing.T) {
		_, err := runImport(t, mem, "foo,bar\n1,2", importer.Options{})
		var unrecognized *importer.UnrecognizedFormatError
		if !errors.As(err, &unrecognized) {
			t.Errorf("error = %v, want UnrecognizedFormatError", err)
		}
	})

	t.Run("malformed CSV imports nothing", func(t *testing.T) {
		data := customCSV(t, [3]string{"1", "Talk one", "a@example.com"}) +
			`"unterminated quote`
		sess, err := mem.Begin(ctx)
		if err != nil {
			t.Fatal(err)
		}
		defer sess.Rollback(ctx)

		_, err = importer.New(sess).Import(ctx, []byte(data), testTarget, importer.Options{})
		var malformed *importer.MalformedRowError
		if !errors.As(err, &malformed) {
			t.Fatalf("error = %v, want MalformedRowError", err)
		}
	})

	t.Run("empty JSON array", func(t *testing.T) {
		_, err := runImport(t, mem, "[]", importer.Options{})
		if !errors.Is(err, importer.ErrEmptyArray) {
			t.Errorf("error = %v, want ErrEmptyArray", err)
		}
	})

	if got := len(mem.Proposals()); got != 0 {
		t.Errorf("fatal imports committed %d proposals, want 0", got)
	}
}

// failingStore rejects every write, simulating a database outage mid-file.
type failingStore struct{}

func (failingStore) HasIdentity(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (failingStore) CreateProposal(context.Context, importer.NewProposal) error {
	return errors.New("connection reset")
}

func TestImportStoreFailureIsRowLevel(t *testing.T) {
	data := customCSV(t, [3]string{"1", "Talk one", "a@example.com"})

	result, err := importer.New(failingStore{}).Import(
		context.Background(), []byte(data), testTarget, importer.Options{})
	if err != nil {
		t.Fatalf("Import() error = %v, want store failures reported per row", err)
	}
	if result.Imported != 0 || len(result.RowErrors) != 1 {
		t.Fatalf("imported/errors = %d/%d, want 0/1", result.Imported, len(result.RowErrors))
	}
	if !strings.Contains(result.RowErrors[0].Reason, "connection reset") {
		t.Errorf("RowError = %+v", result.RowErrors[0])
	}
}
