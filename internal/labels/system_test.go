package labels_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/JaimeStill/label-manager/internal/labels"
	"github.com/JaimeStill/label-manager/pkg/pdfdoc"
	"github.com/JaimeStill/label-manager/pkg/storage"
)

const testSKU = "10530421"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBlobs(t *testing.T) storage.System {
	t.Helper()
	blobs, err := storage.NewFilesystem(filepath.Join(t.TempDir(), "blobs"), discardLogger())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	return blobs
}

type fixture struct {
	sys   labels.System
	store *memStore
	blobs storage.System
}

func newFixture(t *testing.T, blobs storage.System) fixture {
	t.Helper()
	if blobs == nil {
		blobs = newBlobs(t)
	}
	store := newMemStore()
	sys := labels.New(store, blobs, discardLogger(), labels.Options{
		PreviewCacheSize: 8,
		PreviewCacheTTL:  time.Minute,
	})
	return fixture{sys: sys, store: store, blobs: blobs}
}

func (f fixture) upload(t *testing.T, sku, fileName string, data []byte) *labels.Label {
	t.Helper()
	l, err := f.sys.Upload(context.Background(), labels.UploadCommand{
		SKU:         sku,
		FileName:    fileName,
		ContentType: "application/pdf",
		Data:        data,
		CreatedBy:   "tester",
	})
	if err != nil {
		t.Fatalf("Upload(%s): %v", fileName, err)
	}
	return l
}

func labelPDF(sku string) []byte {
	return pdfdoc.TextDocument("Product label", "SKU "+sku)
}

func activeVersions(ls []labels.Label) []int {
	var out []int
	for _, l := range ls {
		if l.Active && !l.Deleted {
			out = append(out, l.Version)
		}
	}
	return out
}

func TestUpload_MonotonicVersions(t *testing.T) {
	f := newFixture(t, nil)

	for i := 1; i <= 3; i++ {
		l := f.upload(t, testSKU, fmt.Sprintf("label-%d.pdf", i), labelPDF(testSKU))
		if l.Version != i {
			t.Errorf("upload %d version = %d, want %d", i, l.Version, i)
		}
	}

	list, _ := f.sys.ListForProduct(context.Background(), testSKU)
	if err := f.sys.Delete(context.Background(), list[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	l := f.upload(t, testSKU, "label-4.pdf", labelPDF(testSKU))
	if l.Version != 3 {
		t.Errorf("version after deleting highest = %d, want 3", l.Version)
	}
}

func TestUpload_VersionFollowsNonDeletedMax(t *testing.T) {
	f := newFixture(t, nil)

	f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))
	b := f.upload(t, testSKU, "b.pdf", labelPDF(testSKU))
	if err := f.sys.Delete(context.Background(), b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	c := f.upload(t, testSKU, "c.pdf", labelPDF(testSKU))
	if c.Version != 2 {
		t.Errorf("version = %d, want 2", c.Version)
	}
	if c.StorageKey != labels.StorageKey(testSKU, 2, "c.pdf") {
		t.Errorf("storage key = %s", c.StorageKey)
	}

	list, _ := f.sys.ListForProduct(context.Background(), testSKU)
	if len(list) != 2 || list[0].ID != c.ID || !list[0].Active {
		t.Errorf("list = %+v, want c active at version 2", list)
	}
}

func TestUpload_ReusedVersionKeepsDeletedBlob(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.upload(t, testSKU, "label.pdf", labelPDF(testSKU))
	old := f.upload(t, testSKU, "label.pdf", []byte("old bytes"))
	if err := f.sys.Delete(ctx, old.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	first := f.upload(t, testSKU, "label.pdf", []byte("new bytes"))
	if first.Version != 2 {
		t.Fatalf("version = %d, want 2", first.Version)
	}
	if want := labels.RevisionKey(testSKU, 2, 1, "label.pdf"); first.StorageKey != want {
		t.Errorf("storage key = %s, want %s", first.StorageKey, want)
	}

	if err := f.sys.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	second := f.upload(t, testSKU, "label.pdf", []byte("newer bytes"))
	if want := labels.RevisionKey(testSKU, 2, 2, "label.pdf"); second.StorageKey != want {
		t.Errorf("storage key = %s, want %s", second.StorageKey, want)
	}

	data, err := f.blobs.Retrieve(ctx, old.StorageKey)
	if err != nil {
		t.Fatalf("Retrieve deleted blob: %v", err)
	}
	if string(data) != "old bytes" {
		t.Errorf("deleted blob = %q, want old bytes", data)
	}
}

func TestUpload_SingleActive(t *testing.T) {
	f := newFixture(t, nil)

	for i := 1; i <= 4; i++ {
		l := f.upload(t, testSKU, "label.pdf", labelPDF(testSKU))

		active := activeVersions(f.store.all(testSKU))
		if len(active) != 1 || active[0] != l.Version {
			t.Errorf("after upload %d active = %v, want [%d]", i, active, l.Version)
		}
	}
}

func TestUpload_Twice(t *testing.T) {
	f := newFixture(t, nil)

	first := f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))
	second := f.upload(t, testSKU, "b.pdf", labelPDF(testSKU))

	list, err := f.sys.ListForProduct(context.Background(), testSKU)
	if err != nil {
		t.Fatalf("ListForProduct: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}

	if list[0].ID != second.ID || !list[0].Active || list[0].Version != 2 {
		t.Errorf("list[0] = %+v, want active version 2", list[0])
	}
	if list[1].ID != first.ID || list[1].Active || list[1].Version != 1 {
		t.Errorf("list[1] = %+v, want inactive version 1", list[1])
	}
}

func TestUpload_RecordsMetadata(t *testing.T) {
	f := newFixture(t, nil)
	data := labelPDF(testSKU)

	l := f.upload(t, testSKU, "my label.pdf", data)

	if l.StorageKey != "labels/"+testSKU+"/v1_my_label.pdf" {
		t.Errorf("StorageKey = %q", l.StorageKey)
	}
	if l.FileName != "my_label.pdf" {
		t.Errorf("FileName = %q", l.FileName)
	}
	if l.SizeBytes != int64(len(data)) {
		t.Errorf("SizeBytes = %d, want %d", l.SizeBytes, len(data))
	}
	if l.CreatedBy != "tester" {
		t.Errorf("CreatedBy = %q, want tester", l.CreatedBy)
	}
	if l.PageCount != nil && *l.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", *l.PageCount)
	}

	stored, err := f.blobs.Retrieve(context.Background(), l.StorageKey)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !bytes.Equal(stored, data) {
		t.Error("stored blob differs from upload")
	}
}

func TestUpload_SKUMatched(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"sku in text", labelPDF(testSKU), true},
		{"other sku", labelPDF("99999999"), false},
		{"not a pdf", []byte("plain text " + testSKU), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			l := f.upload(t, testSKU, "label.pdf", tt.data)

			if l.SKUMatched == nil || *l.SKUMatched != tt.want {
				t.Errorf("SKUMatched = %v, want %v", l.SKUMatched, tt.want)
			}
		})
	}
}

func TestUpload_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		cmd  labels.UploadCommand
		want error
	}{
		{"empty sku", labels.UploadCommand{FileName: "a.pdf", Data: []byte("x"), CreatedBy: "u"}, labels.ErrInvalidOperation},
		{"parent directory sku", labels.UploadCommand{SKU: "..", FileName: "a.pdf", Data: []byte("x"), CreatedBy: "u"}, labels.ErrInvalidOperation},
		{"sku with slash", labels.UploadCommand{SKU: "A/B", FileName: "a.pdf", Data: []byte("x"), CreatedBy: "u"}, labels.ErrInvalidOperation},
		{"empty creator", labels.UploadCommand{SKU: testSKU, FileName: "a.pdf", Data: []byte("x")}, labels.ErrInvalidOperation},
		{"empty file name", labels.UploadCommand{SKU: testSKU, Data: []byte("x"), CreatedBy: "u"}, labels.ErrInvalidFile},
		{"empty data", labels.UploadCommand{SKU: testSKU, FileName: "a.pdf", CreatedBy: "u"}, labels.ErrInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			_, err := f.sys.Upload(context.Background(), tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

type failingBlobs struct {
	storage.System
}

func (failingBlobs) Store(context.Context, string, []byte, string) error {
	return storage.ErrUnavailable
}

func TestUpload_StorageFailureRollsBack(t *testing.T) {
	blobs := newBlobs(t)
	f := newFixture(t, blobs)
	first := f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))

	failing := labels.New(f.store, failingBlobs{blobs}, discardLogger(), labels.Options{})
	_, err := failing.Upload(context.Background(), labels.UploadCommand{
		SKU: testSKU, FileName: "b.pdf", Data: labelPDF(testSKU), CreatedBy: "tester",
	})
	if !errors.Is(err, labels.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
	if labels.MapHTTPStatus(err) != 500 {
		t.Errorf("status = %d, want 500", labels.MapHTTPStatus(err))
	}

	active := activeVersions(f.store.all(testSKU))
	if len(active) != 1 || active[0] != first.Version {
		t.Errorf("active = %v, want [%d]", active, first.Version)
	}
}

func TestUpload_InsertFailureRemovesBlob(t *testing.T) {
	f := newFixture(t, nil)
	f.store.failInsert = errors.New("insert failed")

	_, err := f.sys.Upload(context.Background(), labels.UploadCommand{
		SKU: testSKU, FileName: "a.pdf", Data: labelPDF(testSKU), CreatedBy: "tester",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	exists, err := f.blobs.Validate(context.Background(), labels.StorageKey(testSKU, 1, "a.pdf"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if exists {
		t.Error("blob left behind after failed insert")
	}
}

func TestUpload_ConcurrentSameSKU(t *testing.T) {
	f := newFixture(t, nil)
	const n = 10

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Go(func() {
			_, err := f.sys.Upload(context.Background(), labels.UploadCommand{
				SKU: testSKU, FileName: fmt.Sprintf("l%d.pdf", i), Data: labelPDF(testSKU), CreatedBy: "tester",
			})
			errs <- err
		})
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	all := f.store.all(testSKU)
	if len(all) != n {
		t.Fatalf("labels = %d, want %d", len(all), n)
	}
	for i, l := range all {
		if l.Version != i+1 {
			t.Errorf("versions not contiguous: position %d has version %d", i, l.Version)
		}
	}
	if active := activeVersions(all); len(active) != 1 || active[0] != n {
		t.Errorf("active = %v, want [%d]", active, n)
	}
}

func TestDelete_ActiveRestoresHighest(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	v1 := f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))
	v2 := f.upload(t, testSKU, "b.pdf", labelPDF(testSKU))
	v3 := f.upload(t, testSKU, "c.pdf", labelPDF(testSKU))

	steps := []struct {
		id         int64
		wantActive []int
	}{
		{v3.ID, []int{2}},
		{v2.ID, []int{1}},
		{v1.ID, nil},
	}

	for _, step := range steps {
		if err := f.sys.Delete(ctx, step.id); err != nil {
			t.Fatalf("Delete(%d): %v", step.id, err)
		}
		active := activeVersions(f.store.all(testSKU))
		if fmt.Sprint(active) != fmt.Sprint(step.wantActive) {
			t.Errorf("after deleting %d active = %v, want %v", step.id, active, step.wantActive)
		}
	}

	list, _ := f.sys.ListForProduct(ctx, testSKU)
	if len(list) != 0 {
		t.Errorf("list = %d labels, want 0", len(list))
	}
}

func TestDelete_RestoresHighestNotPrevious(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))
	v2 := f.upload(t, testSKU, "b.pdf", labelPDF(testSKU))
	v3 := f.upload(t, testSKU, "c.pdf", labelPDF(testSKU))

	if err := f.sys.Delete(ctx, v2.ID); err != nil {
		t.Fatalf("Delete v2: %v", err)
	}
	if err := f.sys.Delete(ctx, v3.ID); err != nil {
		t.Fatalf("Delete v3: %v", err)
	}

	if active := activeVersions(f.store.all(testSKU)); len(active) != 1 || active[0] != 1 {
		t.Errorf("active = %v, want [1]", active)
	}
}

func TestDelete_InactiveLeavesActive(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	v1 := f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))
	f.upload(t, testSKU, "b.pdf", labelPDF(testSKU))
	v3 := f.upload(t, testSKU, "c.pdf", labelPDF(testSKU))

	if err := f.sys.Delete(ctx, v1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if active := activeVersions(f.store.all(testSKU)); len(active) != 1 || active[0] != v3.Version {
		t.Errorf("active = %v, want [%d]", active, v3.Version)
	}
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	err := f.sys.Delete(context.Background(), 42)
	if !errors.Is(err, labels.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if labels.MapHTTPStatus(err) != 404 {
		t.Errorf("status = %d, want 404", labels.MapHTTPStatus(err))
	}
}

func TestDelete_AlreadyDeleted(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	v1 := f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))
	v2 := f.upload(t, testSKU, "b.pdf", labelPDF(testSKU))

	if err := f.sys.Delete(ctx, v1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.sys.Delete(ctx, v1.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	if active := activeVersions(f.store.all(testSKU)); len(active) != 1 || active[0] != v2.Version {
		t.Errorf("active = %v, want [%d]", active, v2.Version)
	}
}

func TestDelete_KeepsBlob(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	l := f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))
	if err := f.sys.Delete(ctx, l.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	exists, err := f.blobs.Validate(ctx, l.StorageKey)
	if err != nil || !exists {
		t.Errorf("blob exists = %v, err = %v; soft delete must keep the blob", exists, err)
	}
}

func TestListForProduct_RoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	names := []string{"first.pdf", "second.pdf", "third.pdf"}
	for _, n := range names {
		f.upload(t, testSKU, n, labelPDF(testSKU))
	}
	f.upload(t, "OTHER", "other.pdf", labelPDF("OTHER"))

	list, err := f.sys.ListForProduct(ctx, testSKU)
	if err != nil {
		t.Fatalf("ListForProduct: %v", err)
	}
	if len(list) != len(names) {
		t.Fatalf("len = %d, want %d", len(list), len(names))
	}

	for i, l := range list {
		wantVersion := len(names) - i
		wantName := names[wantVersion-1]
		if l.Version != wantVersion || l.FileName != wantName {
			t.Errorf("list[%d] = v%d %s, want v%d %s", i, l.Version, l.FileName, wantVersion, wantName)
		}
		if l.StorageKey != labels.StorageKey(testSKU, wantVersion, wantName) {
			t.Errorf("list[%d] StorageKey = %q", i, l.StorageKey)
		}
	}
}

func TestFind(t *testing.T) {
	f := newFixture(t, nil)
	l := f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))

	got, err := f.sys.Find(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.StorageKey != l.StorageKey {
		t.Errorf("StorageKey = %q, want %q", got.StorageKey, l.StorageKey)
	}

	if _, err := f.sys.Find(context.Background(), 999); !errors.Is(err, labels.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestArchive(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := []byte("first file")
	b := labelPDF(testSKU)
	f.upload(t, testSKU, "a.txt", a)
	v2 := f.upload(t, testSKU, "b.pdf", b)
	deleted := f.upload(t, testSKU, "c.pdf", labelPDF(testSKU))
	if err := f.sys.Delete(ctx, deleted.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var buf bytes.Buffer
	if err := f.sys.Archive(ctx, testSKU, &buf); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}

	want := map[string][]byte{
		"1_a.txt": a,
		"2_b.pdf": b,
	}
	if len(zr.File) != len(want) {
		t.Fatalf("entries = %d, want %d", len(zr.File), len(want))
	}

	for _, zf := range zr.File {
		expected, ok := want[zf.Name]
		if !ok {
			t.Errorf("unexpected entry %q", zf.Name)
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open %s: %v", zf.Name, err)
		}
		got, _ := io.ReadAll(rc)
		rc.Close()
		if !bytes.Equal(got, expected) {
			t.Errorf("entry %s content mismatch", zf.Name)
		}
	}

	if labels.ArchiveEntryName(*v2) != "2_b.pdf" {
		t.Errorf("ArchiveEntryName = %q", labels.ArchiveEntryName(*v2))
	}
}

func TestArchive_Empty(t *testing.T) {
	f := newFixture(t, nil)

	var buf bytes.Buffer
	if err := f.sys.Archive(context.Background(), "NONE", &buf); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 0 {
		t.Errorf("entries = %d, want 0", len(zr.File))
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		placeholder bool
	}{
		{"pdf served as stored", labelPDF(testSKU), false},
		{"non-pdf replaced", []byte("GIF89a not a pdf"), true},
		{"short data replaced", []byte("%PD"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			l := f.upload(t, testSKU, "label.bin", tt.data)

			got, data, err := f.sys.Preview(context.Background(), l.ID)
			if err != nil {
				t.Fatalf("Preview: %v", err)
			}
			if got.ID != l.ID {
				t.Errorf("label id = %d, want %d", got.ID, l.ID)
			}
			if !strings.HasPrefix(string(data), pdfdoc.Magic) {
				t.Errorf("preview does not start with %s", pdfdoc.Magic)
			}
			if tt.placeholder == bytes.Equal(data, tt.data) {
				t.Errorf("placeholder = %v but preview equal to stored = %v", tt.placeholder, bytes.Equal(data, tt.data))
			}
		})
	}
}

func TestPreview_Cached(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	l := f.upload(t, testSKU, "a.pdf", labelPDF(testSKU))

	_, first, err := f.sys.Preview(ctx, l.ID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if err := f.blobs.Delete(ctx, l.StorageKey); err != nil {
		t.Fatalf("Delete blob: %v", err)
	}

	_, second, err := f.sys.Preview(ctx, l.ID)
	if err != nil {
		t.Fatalf("cached Preview: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached preview differs")
	}
}

func TestPreview_MissingBlob(t *testing.T) {
	blobs := newBlobs(t)
	store := newMemStore()
	sys := labels.New(store, blobs, discardLogger(), labels.Options{})
	ctx := context.Background()

	l, err := sys.Upload(ctx, labels.UploadCommand{
		SKU: testSKU, FileName: "a.pdf", Data: labelPDF(testSKU), CreatedBy: "tester",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := blobs.Delete(ctx, l.StorageKey); err != nil {
		t.Fatalf("Delete blob: %v", err)
	}

	_, _, err = sys.Preview(ctx, l.ID)
	if !errors.Is(err, labels.ErrStorage) || !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrStorage wrapping storage.ErrNotFound", err)
	}
}
