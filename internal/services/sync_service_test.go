package services

import (
	"context"
	"testing"

	"github.com/funtravel/tours-backend/pkg/calcom"
	"github.com/funtravel/tours-backend/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSync(t *testing.T) {
	catalog := newFakeCatalog(
		&strapi.Tour{
			ID: 1, Slug: "bali-sunrise-trek", Name: "Bali Sunrise Trek", Duration: 4,
			Destination: &strapi.Destination{City: "Ubud", Country: "Indonesia"},
		},
		&strapi.Tour{
			ID: 2, Slug: "ubud-rice-terraces", Name: "Ubud Rice Terraces", Duration: 3,
			Destination: &strapi.Destination{City: "Ubud", Country: "Indonesia"},
		},
		&strapi.Tour{
			// No destination yet in the CMS: skipped, not synced
			ID: 3, Slug: "draft-tour", Name: "Draft Tour", Duration: 2,
		},
	)

	scheduler := newFakeScheduler()
	// One matched pair, one orphan to delete
	scheduler.eventTypes["bali-sunrise-trek"] = &calcom.EventType{ID: 71, Slug: "bali-sunrise-trek", Title: "Old Title"}
	scheduler.eventTypes["retired-tour"] = &calcom.EventType{ID: 99, Slug: "retired-tour"}

	service := NewSyncService(catalog, scheduler, testLogger())

	result, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ubud-rice-terraces"}, result.Created)
	assert.Equal(t, []string{"bali-sunrise-trek"}, result.Updated)
	assert.Equal(t, []string{"retired-tour"}, result.Deleted)
	assert.Equal(t, []string{"draft-tour"}, result.Skipped)

	assert.Equal(t, []int{71}, scheduler.updated)
	assert.Equal(t, []int{99}, scheduler.deleted)

	// Created event type carries slug, hour->minute duration and location
	require.Len(t, scheduler.created, 1)
	created := scheduler.created[0]
	assert.Equal(t, "ubud-rice-terraces", created.Slug)
	assert.Equal(t, 180, created.Length)
	assert.True(t, created.RequiresConfirmation)
	require.Len(t, created.Locations, 1)
	assert.Equal(t, "Ubud Indonesia", created.Locations[0].Address)
	assert.Equal(t, "inPerson", created.Locations[0].Type)
	assert.Equal(t, 2, created.Metadata["tourId"])
}
