package postgres

import (
	"hotelops/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		endpoint config.PostgresEndpoint
		prefix   string
		want     string
	}{
		{
			name: "defaults sslmode",
			endpoint: config.PostgresEndpoint{
				Host: "db", Port: "5432", Username: "hotelops", Password: "secret", Name: "hotelops",
			},
			want: "postgres://hotelops:secret@db:5432/hotelops?sslmode=disable",
		},
		{
			name: "prefix and timezone",
			endpoint: config.PostgresEndpoint{
				Host: "db", Port: "5432", Username: "hotelops", Password: "secret", Name: "ops",
				SSLMode: "require", Timezone: "Africa/Addis_Ababa",
			},
			prefix: "staging_",
			want:   "postgres://hotelops:secret@db:5432/staging_ops?sslmode=require&timezone=Africa%2FAddis_Ababa",
		},
		{
			name: "escapes reserved password characters",
			endpoint: config.PostgresEndpoint{
				Host: "::1", Port: "5432", Username: "ops", Password: "p@ss/word", Name: "hotelops",
			},
			want: "postgres://ops:p%40ss%2Fword@[::1]:5432/hotelops?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DSN(tt.endpoint, tt.prefix))
		})
	}
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "postgres://ops:xxxxx@db:5432/hotelops", redact("postgres://ops:secret@db:5432/hotelops"))
}

func TestPoolFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.MaxOpenConns = 20
	cfg.DB.Postgres.ConnMaxLifetimeMinutes = 5

	pool := poolFromConfig(cfg)

	assert.Equal(t, 20, pool.MaxOpen)
	assert.Equal(t, 1, pool.MaxRetry)
	assert.Equal(t, "5m0s", pool.MaxLifetime.String())
}
