package seed

import (
	"context"
	"fmt"

	"opsboard/internal/store"
	"opsboard/pkg/types"
)

// SeedLookups syncs the database with the lookup definitions below.
// These lists are the source of truth for the filter tables:
// - Inserts new rows that don't exist
// - Updates existing rows that have changed
// - Deletes rows from DB that aren't in the lists
//
// To generate new IDs: `go run ./cmd/opsboard nanoid`
func SeedLookups(ctx context.Context, repo *store.LookupRepository) error {
	if err := repo.SyncAreas(ctx, Areas); err != nil {
		return fmt.Errorf("failed to sync areas: %w", err)
	}

	if err := repo.SyncClassifications(ctx, Classifications); err != nil {
		return fmt.Errorf("failed to sync classifications: %w", err)
	}

	if err := repo.SyncRooms(ctx, Rooms); err != nil {
		return fmt.Errorf("failed to sync rooms: %w", err)
	}

	return nil
}

// Define seed data with fixed IDs
// compile-time safe - if the lookup types change, this won't compile
var Areas = []types.Area{
	{
		ID:           "fK2nT8vLqW4xYpRbE7sAjC9mZ1dH6uGo",
		Name:         "Mantenimiento",
		Slug:         "mantenimiento",
		DisplayOrder: 1,
		IsActive:     true,
	},
	{
		ID:           "Qr5YwN3bVt7ZxJfM9kPdL2cS8gEhA4iU",
		Name:         "Limpieza",
		Slug:         "limpieza",
		DisplayOrder: 2,
		IsActive:     true,
	},
	{
		ID:           "Xm8CsD1pKy6TzQvW3nRjF5bLaU9eHoG2",
		Name:         "Seguridad",
		Slug:         "seguridad",
		DisplayOrder: 3,
		IsActive:     true,
	},
	{
		ID:           "Jb4HtE9rNw2VqYcZ7mXkP6fSdL1gAuO8",
		Name:         "Sistemas",
		Slug:         "sistemas",
		DisplayOrder: 4,
		IsActive:     true,
	},
	{
		ID:           "Tz6WvR3jMp9KxBnQ1cYhD8sFgL5eAiU7",
		Name:         "Administracion",
		Slug:         "administracion",
		DisplayOrder: 5,
		IsActive:     true,
	},
}

var Classifications = []types.Classification{
	{
		ID:           "Ua9GpK2xNv5RqTbJ7wZcM4fYdH8sLiE3",
		Name:         "Electrico",
		Slug:         "electrico",
		DisplayOrder: 1,
		IsActive:     true,
	},
	{
		ID:           "Wd3LrF8tQz1XcVnK6mBjP9gYhS5aEuO4",
		Name:         "Plomeria",
		Slug:         "plomeria",
		DisplayOrder: 2,
		IsActive:     true,
	},
	{
		ID:           "Yh7NtC4vJx2WqZbR9kMdF1pSgL6eAiU5",
		Name:         "Mobiliario",
		Slug:         "mobiliario",
		DisplayOrder: 3,
		IsActive:     true,
	},
	{
		ID:           "Zk1PvG6rTy8XwQcN3mJbH5fLdS9eAiU2",
		Name:         "Red y equipos",
		Slug:         "red-equipos",
		DisplayOrder: 4,
		IsActive:     true,
	},
	{
		ID:           "Vb5MsH9wRz3YqXcT7nKjD2gFpL4eAiU6",
		Name:         "Infraestructura",
		Slug:         "infraestructura",
		DisplayOrder: 5,
		IsActive:     true,
	},
	{
		ID:           "Sc8JtB2xWv6ZqYrN4mPdK9gFhL1eAiU3",
		Name:         "Otro",
		Slug:         "otro",
		DisplayOrder: 6,
		IsActive:     true,
	},
}

var Rooms = []types.Room{
	{
		ID:           "Ld2QvJ7tXz4WcYbM8nRjF3pSgK9eAiU1",
		Name:         "Recepcion",
		Slug:         "recepcion",
		Floor:        1,
		DisplayOrder: 1,
		IsActive:     true,
	},
	{
		ID:           "Ne6TwK3vZx8YqRcP1mJbH7fLdS4gAiU9",
		Name:         "Sala 101",
		Slug:         "sala-101",
		Floor:        1,
		DisplayOrder: 2,
		IsActive:     true,
	},
	{
		ID:           "Pf9XzL4wCv2ZqYtR6nKjD8gMhS1eAiU5",
		Name:         "Sala 102",
		Slug:         "sala-102",
		Floor:        1,
		DisplayOrder: 3,
		IsActive:     true,
	},
	{
		ID:           "Rg3ZxM8vBw5XqYcT2nLjF6pKhS9eAiU4",
		Name:         "Sala 201",
		Slug:         "sala-201",
		Floor:        2,
		DisplayOrder: 4,
		IsActive:     true,
	},
	{
		ID:           "Th7BzN2wDv9ZqXcR5mKjG1pLhS6eAiU8",
		Name:         "Sala 202",
		Slug:         "sala-202",
		Floor:        2,
		DisplayOrder: 5,
		IsActive:     true,
	},
	{
		ID:           "Uj1CzP6wEv3XqYtS9nLjH4gMdK2eAiU7",
		Name:         "Almacen",
		Slug:         "almacen",
		Floor:        0,
		DisplayOrder: 6,
		IsActive:     true,
	},
	{
		ID:           "Vk5DzQ9wFv7ZqXcT3mMjJ8gNhL1eAiU6",
		Name:         "Comedor",
		Slug:         "comedor",
		Floor:        1,
		DisplayOrder: 7,
		IsActive:     true,
	},
}
