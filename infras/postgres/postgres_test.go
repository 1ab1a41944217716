package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventhub/infras/postgres"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		password string
		sslMode  string
		timezone string
		want     string
	}{
		{
			name:     "ssl and timezone",
			password: "secret",
			sslMode:  "disable",
			timezone: "UTC",
			want:     "postgres://app:secret@db:5432/eventhub?sslmode=disable&timezone=UTC",
		},
		{
			name:     "password is escaped",
			password: "p@ss/word",
			want:     "postgres://app:p%40ss%2Fword@db:5432/eventhub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := postgres.DSN("app", tt.password, "db", "5432", "eventhub", tt.sslMode, tt.timezone)

			assert.Equal(t, tt.want, got)
		})
	}
}
