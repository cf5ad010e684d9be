package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/internal/repository"
	"github.com/sefazor/eventpapers-backend/pkg/storage"
)

type fakePaperRepo struct {
	mu     sync.Mutex
	nextID uint
	papers []models.Paper
}

func (r *fakePaperRepo) add(papers ...models.Paper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range papers {
		r.nextID++
		p.ID = r.nextID
		r.papers = append(r.papers, p)
	}
}

func (r *fakePaperRepo) CountByEventID(_ context.Context, eventID uint) (int64, error) {
	papers, _ := r.GetByEventID(context.Background(), eventID)
	return int64(len(papers)), nil
}

func (r *fakePaperRepo) GetByEventID(_ context.Context, eventID uint) ([]models.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Paper
	for _, p := range r.papers {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaperRepo) GetByPdfID(_ context.Context, eventID uint, pdfID string) (*models.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.papers {
		if p.EventID == eventID && p.PdfID == pdfID {
			paper := p
			return &paper, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePaperRepo) List(_ context.Context, offset, limit int) ([]models.Paper, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := int64(len(r.papers))
	if offset >= len(r.papers) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(r.papers) {
		end = len(r.papers)
	}
	return append([]models.Paper(nil), r.papers[offset:end]...), total, nil
}

func (r *fakePaperRepo) Update(_ context.Context, paper *models.Paper) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.papers {
		if r.papers[i].ID == paper.ID {
			r.papers[i] = *paper
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID uint
	events map[uint]*models.Event
	papers *fakePaperRepo
}

func newFakeEventRepo(papers *fakePaperRepo) *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uint]*models.Event), papers: papers}
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uint) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) filter(keep func(*models.Event) bool) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeEventRepo) FindByName(_ context.Context, name string) ([]models.Event, error) {
	return r.filter(func(e *models.Event) bool {
		return strings.Contains(strings.ToLower(e.Name), strings.ToLower(name))
	}), nil
}

func (r *fakeEventRepo) FindByInitialDate(_ context.Context, date time.Time) ([]models.Event, error) {
	return r.filter(func(e *models.Event) bool { return e.InitialDate.Equal(date) }), nil
}

func (r *fakeEventRepo) FindByFinalDate(_ context.Context, date time.Time) ([]models.Event, error) {
	return r.filter(func(e *models.Event) bool { return e.FinalDate.Equal(date) }), nil
}

func (r *fakeEventRepo) List(_ context.Context, offset, limit int) ([]models.Event, int64, error) {
	all := r.filter(func(*models.Event) bool { return true })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeEventRepo) UpdateFilename(ctx context.Context, id uint, column, key string) (*models.Event, error) {
	r.mu.Lock()
	event, ok := r.events[id]
	if !ok {
		r.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	value := key
	switch column {
	case repository.ColumnSummaryFilename:
		event.SummaryFilename = &value
	case repository.ColumnMergedPapersFilename:
		event.MergedPapersFilename = &value
	case repository.ColumnAnalFilename:
		event.AnalFilename = &value
	default:
		r.mu.Unlock()
		return nil, fmt.Errorf("unknown column %s", column)
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeEventRepo) RecordMergedPapers(ctx context.Context, id uint, key string, papers []models.Paper) (*models.Event, error) {
	r.mu.Lock()
	event, ok := r.events[id]
	if !ok {
		r.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	if event.PapersMerged() {
		r.mu.Unlock()
		return nil, repository.ErrAlreadyMerged
	}
	value := key
	event.MergedPapersFilename = &value
	r.mu.Unlock()

	for i := range papers {
		papers[i].EventID = id
	}
	r.papers.add(papers...)
	return r.GetByID(ctx, id)
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
	deletes int
	failPut error
}

var _ storage.StorageService = (*memoryStorage)(nil)

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Upload(_ context.Context, key string, reader io.Reader, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut != nil {
		return m.failPut
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.uploads++
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) Download(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, storage.ErrObjectNotFound)
	}
	return data, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.objects, key)
	return nil
}

type fixture struct {
	papers   *fakePaperRepo
	events   *fakeEventRepo
	storage  *memoryStorage
	files    *FileHandlerService
	event    *EventService
	summary  *SummaryService
	merged   *MergedPapersService
	anal     *AnalService
	paperSvc *PaperService
}

func newFixture() *fixture {
	log := zap.NewNop()
	papers := &fakePaperRepo{}
	events := newFakeEventRepo(papers)
	store := newMemoryStorage()
	files := NewFileHandlerService(store, log)
	return &fixture{
		papers:   papers,
		events:   events,
		storage:  store,
		files:    files,
		event:    NewEventService(events, "https://cdn.example.com/", log),
		summary:  NewSummaryService(papers, events, log),
		merged:   NewMergedPapersService(files, events, papers, log),
		anal:     NewAnalService(files, events, log),
		paperSvc: NewPaperService(papers, events, log),
	}
}

func (f *fixture) createEvent(t *testing.T, name string) uint {
	t.Helper()
	resp, err := f.event.CreateEvent(context.Background(), models.EventDTO{
		Name:        name,
		InitialDate: "2024-01-01",
		FinalDate:   "2024-01-03",
	})
	require.NoError(t, err)
	return resp.ID
}

func samplePDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, fmt.Sprintf("page %d", i+1))
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func zipOf(t *testing.T, entries map[string][]byte, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
