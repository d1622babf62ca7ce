package repository

import (
	"hotelops/infras/otel/mocks"
	"hotelops/shared/dto"
	"hotelops/shared/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

type suite struct {
	ID        string `db:"id"`
	HotelID   string `db:"hotel_id"`
	HotelName string `db:"hotel_name" table:"hotels" column:"name"`
	Status    string `db:"status"`
	Scratch   string `db:"-"`
	Untagged  string
	model.Metadata
}

func (suite) GetJoinQuery() string {
	return "LEFT JOIN hotels ON hotels.id = suites.hotel_id"
}

type plain struct {
	ID string `db:"id"`
}

func newSuiteRepo() Repository[suite] {
	return NewRepository[suite]("suite", "suites", "id", nil, mocks.NewOtel())
}

func TestNewRepository_Columns(t *testing.T) {
	repo := newSuiteRepo()

	assert.Equal(t, "LEFT JOIN hotels ON hotels.id = suites.hotel_id", repo.join)
	assert.Equal(t,
		"INSERT INTO suites (id, hotel_id, status, created_at, modified_at, created_by, modified_by) "+
			"VALUES (:id, :hotel_id, :status, :created_at, :modified_at, :created_by, :modified_by)",
		repo.insertQuery)
	assert.Equal(t, "suites.id, hotels.name AS hotel_name", repo.selectList("id", "name"))

	assert.Empty(t, NewRepository[plain]("plain", "plains", "id", nil, mocks.NewOtel()).join)
}

func TestRepository_OrderBy(t *testing.T) {
	repo := newSuiteRepo()

	tests := []struct {
		name   string
		params dto.QueryParams
		want   string
	}{
		{name: "none", want: "ORDER BY suites.id ASC"},
		{name: "own column", params: dto.QueryParams{SortBy: "status", SortDir: "desc"}, want: "ORDER BY suites.status DESC, suites.id ASC"},
		{name: "aliased join column", params: dto.QueryParams{SortBy: "hotel_name"}, want: "ORDER BY hotels.name ASC, suites.id ASC"},
		{name: "unknown column dropped", params: dto.QueryParams{SortBy: "1; DROP TABLE suites"}, want: "ORDER BY suites.id ASC"},
		{name: "bad direction", params: dto.QueryParams{SortBy: "id", SortDir: "sideways"}, want: "ORDER BY suites.id ASC"},
		{name: "primary key kept where requested", params: dto.QueryParams{SortBy: "id", SortDir: "desc"}, want: "ORDER BY suites.id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repo.orderBy(tt.params))
		})
	}
}

func TestRepository_UpdateQuery(t *testing.T) {
	repo := newSuiteRepo()

	where, args := whereClause(dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "pending"},
		},
	})

	query := repo.updateQuery(map[string]any{"status": "confirmed", "modified_by": "u-1"}, where, args)

	assert.Equal(t, "UPDATE suites SET modified_by = :set_modified_by, status = :set_status WHERE (status = :status)", query)
	assert.Equal(t, "pending", args["status"])
	assert.Equal(t, "confirmed", args["set_status"])
}

func TestWhereClause_Empty(t *testing.T) {
	where, args := whereClause(dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd})

	assert.Empty(t, where)
	assert.NotNil(t, args)
}

func TestStatement(t *testing.T) {
	assert.Equal(t, "SELECT id FROM suites LIMIT 1", statement("SELECT id", "FROM suites", "", "", "LIMIT 1"))
}

func TestRepository_OrderByEndsWithPrimaryKey(t *testing.T) {
	repo := newSuiteRepo()

	got := repo.orderBy(dto.QueryParams{Sorts: []dto.Sort{
		{Field: "hotel_name", Dir: dto.SortDirAsc},
		{Field: "status", Dir: dto.SortDirDesc},
	}})

	assert.Equal(t, "ORDER BY hotels.name ASC, suites.status DESC, suites.id ASC", got)
}
