package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cofrinho/internal/common"
	"cofrinho/internal/config"
	"cofrinho/internal/model"
	"cofrinho/internal/service"
	"cofrinho/internal/storage"

	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
// The schema is migrated on every open; a failure here aborts the command.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolveCategory accepts either a numeric id or a title.
func resolveCategory(ctx context.Context, store service.Storage, ref string) (*model.Category, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return store.GetCategoryByID(ctx, id)
	}
	return store.GetCategoryByTitle(ctx, ref)
}

// parseDate parses a YYYY-MM-DD argument; an empty string means now.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return date, nil
}

// isNotFound reports whether err signals a missing entity.
func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
