package user

import (
	"net/http"
	"net/url"
	"testing"

	"hotelops/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFilter(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantWhere string
		wantArgs  int
		wantCode  int
	}{
		{
			name:      "no filters",
			query:     url.Values{},
			wantWhere: "",
		},
		{
			name:      "level and active",
			query:     url.Values{"level": {"staff"}, "active": {"true"}},
			wantWhere: "(users.level = :level AND users.active = :active)",
			wantArgs:  2,
		},
		{
			name:      "search spans name and email",
			query:     url.Values{"search": {"abebe"}},
			wantWhere: "((LOWER(users.full_name) LIKE LOWER(:full_name) OR LOWER(users.email) LIKE LOWER(:email)))",
			wantArgs:  2,
		},
		{
			name:     "bad active flag",
			query:    url.Values{"active": {"maybe"}},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := listFilter(tt.query)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)

			where, args := group.GetWhereClause()
			assert.Equal(t, tt.wantWhere, where)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}
