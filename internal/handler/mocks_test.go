package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/internal/service"
)

type mockEventService struct{ mock.Mock }

func (m *mockEventService) events(args mock.Arguments) ([]models.EventResponse, error) {
	events, _ := args.Get(0).([]models.EventResponse)
	return events, args.Error(1)
}

func (m *mockEventService) event(args mock.Arguments) (*models.EventResponse, error) {
	event, _ := args.Get(0).(*models.EventResponse)
	return event, args.Error(1)
}

func (m *mockEventService) GetEventsByName(ctx context.Context, name string) ([]models.EventResponse, error) {
	return m.events(m.Called(ctx, name))
}

func (m *mockEventService) GetEventsByInitialDate(ctx context.Context, initialDate string) ([]models.EventResponse, error) {
	return m.events(m.Called(ctx, initialDate))
}

func (m *mockEventService) GetEventsByFinalDate(ctx context.Context, finalDate string) ([]models.EventResponse, error) {
	return m.events(m.Called(ctx, finalDate))
}

func (m *mockEventService) CreateEvent(ctx context.Context, req models.EventDTO) (*models.EventResponse, error) {
	return m.event(m.Called(ctx, req))
}

func (m *mockEventService) GetEvents(ctx context.Context, page models.Page) (*models.EventsPaginatedResponse, error) {
	args := m.Called(ctx, page)
	resp, _ := args.Get(0).(*models.EventsPaginatedResponse)
	return resp, args.Error(1)
}

func (m *mockEventService) UpdateSummaryFilename(ctx context.Context, eventID uint, key string) (*models.EventResponse, error) {
	return m.event(m.Called(ctx, eventID, key))
}

func (m *mockEventService) UpdateMergedPapersFilename(ctx context.Context, eventID uint, key string, papers []models.Paper) (*models.EventResponse, error) {
	return m.event(m.Called(ctx, eventID, key, papers))
}

func (m *mockEventService) UpdateAnalFilename(ctx context.Context, eventID uint, key string) (*models.EventResponse, error) {
	return m.event(m.Called(ctx, eventID, key))
}

type mockSummaryService struct{ mock.Mock }

func (m *mockSummaryService) CreateSummaryPDF(ctx context.Context, eventID uint) (*service.SummaryPDFResponse, error) {
	args := m.Called(ctx, eventID)
	resp, _ := args.Get(0).(*service.SummaryPDFResponse)
	return resp, args.Error(1)
}

type mockFileHandlerService struct{ mock.Mock }

func (m *mockFileHandlerService) PutObject(ctx context.Context, data []byte, folder, filename string) (*service.PutObjectResponse, error) {
	args := m.Called(ctx, data, folder, filename)
	resp, _ := args.Get(0).(*service.PutObjectResponse)
	return resp, args.Error(1)
}

func (m *mockFileHandlerService) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockMergedPapersService struct{ mock.Mock }

func (m *mockMergedPapersService) MergePDFFiles(ctx context.Context, eventID uint, file service.Upload) (*service.MergedPapersResponse, error) {
	args := m.Called(ctx, eventID, file)
	resp, _ := args.Get(0).(*service.MergedPapersResponse)
	return resp, args.Error(1)
}

type mockAnalService struct{ mock.Mock }

func (m *mockAnalService) CreateAnalPDF(ctx context.Context, eventID uint, cover service.Upload) (*service.PutObjectResponse, error) {
	args := m.Called(ctx, eventID, cover)
	resp, _ := args.Get(0).(*service.PutObjectResponse)
	return resp, args.Error(1)
}

type mockPaperService struct{ mock.Mock }

func (m *mockPaperService) GetPapers(ctx context.Context, page models.Page) (*models.PapersPaginatedResponse, error) {
	args := m.Called(ctx, page)
	resp, _ := args.Get(0).(*models.PapersPaginatedResponse)
	return resp, args.Error(1)
}

func (m *mockPaperService) BatchUpdatePapers(ctx context.Context, eventID uint, file service.Upload) ([]models.BatchPapersResponse, error) {
	args := m.Called(ctx, eventID, file)
	resp, _ := args.Get(0).([]models.BatchPapersResponse)
	return resp, args.Error(1)
}
