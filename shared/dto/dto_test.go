package dto_test

import (
	"hotelops/shared/constant"
	"hotelops/shared/dto"
	"hotelops/shared/model"
	"hotelops/shared/timezone"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	modified := created.Add(26 * time.Hour)

	var metadata dto.Metadata
	metadata.FromModel(model.Metadata{
		CreatedAt:  created,
		ModifiedAt: modified,
		CreatedBy:  "front-desk",
		ModifiedBy: "night-audit",
	})

	assert.Equal(t, dto.Metadata{
		CreatedAt:  timezone.Format(created, constant.DateFormat),
		ModifiedAt: timezone.Format(modified, constant.DateFormat),
		CreatedBy:  "front-desk",
		ModifiedBy: "night-audit",
	}, metadata)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		want         dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: "page=2&limit=20&sort_by=check_in_date&sort_dir=desc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in_date", SortDir: dto.SortDirDesc},
		},
		{
			name:         "defaults fill paging only",
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name: "no defaults leaves zero values",
			want: dto.QueryParams{},
		},
		{
			name:         "malformed and negative values fall back",
			query:        "page=abc&limit=-5&sort_dir=sideways",
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:         "zero page falls back",
			query:        "page=0",
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:  "limit is capped",
			query: "limit=5000",
			want:  dto.QueryParams{Limit: constant.MaxValueLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/rooms/?"+tt.query, nil)

			var params dto.QueryParams
			params.FromRequest(req, tt.withDefaults)

			assert.Equal(t, tt.want, params)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	tests := []struct {
		page, limit, want int
	}{
		{page: 1, limit: 10, want: 0},
		{page: 3, limit: 10, want: 20},
		{page: 0, limit: 10, want: 0},
		{page: 4, limit: 0, want: 0},
	}

	for _, tt := range tests {
		params := dto.QueryParams{Page: tt.page, Limit: tt.limit}
		assert.Equal(t, tt.want, params.Offset())
	}
}
