package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/storage"
)

// TestStoreIntegration exercises the pgx store against a live database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}
	for _, path := range []string{".env", "../.env", "../../.env", "../../../.env"} {
		_ = godotenv.Overload(path)
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := New(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	suffix := time.Now().UnixNano()
	owner, err := store.CreateUser(ctx, models.User{
		Email:        fmt.Sprintf("owner_%d@example.com", suffix),
		Name:         "Owner",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	defer func() { _ = store.DeleteUser(ctx, owner.ID) }()

	_, err = store.CreateUser(ctx, models.User{Email: owner.Email, Name: "Dup", PasswordHash: "x"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	desc := "two litres of MILK"
	task, err := store.CreateTask(ctx, models.Task{
		Title:       "Groceries",
		Description: &desc,
		Status:      models.StatusPending,
		Priority:    models.PriorityHigh,
		UserID:      owner.ID,
	})
	require.NoError(t, err)

	filter := storage.TaskFilter{OwnerID: owner.ID, Search: "milk", IncludeOwner: true}
	tasks, err := store.ListTasks(ctx, filter, storage.DefaultTaskSort, 0, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, owner.Email, tasks[0].User.Email)

	count, err := store.CountTasks(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	completed := models.StatusCompleted
	updated, err := store.UpdateTask(ctx, task.ID, storage.TaskPatch{Status: &completed, ClearDescription: true})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Nil(t, updated.Description)

	require.NoError(t, store.DeleteUser(ctx, owner.ID))
	_, err = store.FindTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
