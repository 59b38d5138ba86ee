package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carepoint/config"
)

func TestConnString(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "db",
		Port:     "5432",
		Username: "care",
		Password: "p@ss:word/1",
		DBName:   "carepoint",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://care:p%40ss%3Aword%2F1@db:5432/carepoint?sslmode=disable", ConnString(cfg))

	cfg.SSLMode = ""
	assert.Equal(t, "postgres://care:p%40ss%3Aword%2F1@db:5432/carepoint", ConnString(cfg))
}
