package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/models"
)

func TestEventService_CreateAndQueryByName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.event.CreateEvent(ctx, models.EventDTO{
		Name:        "Conf2024",
		InitialDate: "2024-01-01",
		FinalDate:   "2024-01-03",
	})
	require.NoError(t, err)
	assert.Equal(t, "Conf2024", created.Name)
	assert.Equal(t, "2024-01-01", created.InitialDate)
	assert.Equal(t, "2024-01-03", created.FinalDate)
	assert.True(t, strings.HasPrefix(created.S3FolderName, "events/conf2024-"))
	assert.Nil(t, created.SummaryFilename)

	found, err := f.event.GetEventsByName(ctx, "Conf2024")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	none, err := f.event.GetEventsByName(ctx, "Other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEventService_QueryByDates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.createEvent(t, "Conf2024")

	byInitial, err := f.event.GetEventsByInitialDate(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, byInitial, 1)
	assert.Equal(t, id, byInitial[0].ID)

	byFinal, err := f.event.GetEventsByFinalDate(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, byFinal)

	_, err = f.event.GetEventsByFinalDate(ctx, "01/03/2024")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestEventService_CreateRejectsInvertedDates(t *testing.T) {
	f := newFixture()

	_, err := f.event.CreateEvent(context.Background(), models.EventDTO{
		Name:        "Backwards",
		InitialDate: "2024-01-03",
		FinalDate:   "2024-01-01",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestEventService_GetEventsPagination(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 11; i++ {
		f.createEvent(t, fmt.Sprintf("Event %d", i))
	}

	first, err := f.event.GetEvents(ctx, models.DefaultPage())
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, int64(11), first.Total)
	assert.Equal(t, 2, first.TotalPages)

	again, err := f.event.GetEvents(ctx, models.DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, first.Items, again.Items)

	second, err := f.event.GetEvents(ctx, models.Page{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, uint(11), second.Items[0].ID)
}

func TestEventService_UpdateFilenames(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.createEvent(t, "Conf")

	resp, err := f.event.UpdateSummaryFilename(ctx, id, "events/conf/summary.pdf")
	require.NoError(t, err)
	require.NotNil(t, resp.SummaryFilename)
	assert.Equal(t, "https://cdn.example.com/events/conf/summary.pdf", *resp.SummaryFilename)

	_, err = f.event.UpdateAnalFilename(ctx, 999, "x")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.event.UpdateMergedPapersFilename(ctx, id, "events/conf/merged_papers.pdf", []models.Paper{{PdfID: "1", TotalPages: 2}})
	require.NoError(t, err)
	_, err = f.event.UpdateMergedPapersFilename(ctx, id, "events/conf/merged_papers.pdf", nil)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}
