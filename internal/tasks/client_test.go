package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/services"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func startClient(t *testing.T, client *Client) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	client.Start(ctx)
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		client.Stop(stopCtx)
		cancel()
	})
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "linkshelf-tasks.db"), TasksDBPath(filepath.Join("data", "linkshelf.db")))
	assert.Equal(t, filepath.Join("data", "store-tasks.db"), TasksDBPath(filepath.Join("data", "store")))
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)
	assert.False(t, client.Running())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)
	assert.True(t, client.Running())

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestEnqueue_NotStarted(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Enqueue(CleanupNotificationsTask{})
	assert.ErrorIs(t, err, ErrNotStarted)
}

type mockImporter struct {
	mu    sync.Mutex
	calls []ImportBookmarksTask
	err   error
	done  chan struct{}
}

func (m *mockImporter) ImportBookmarksRun(_ context.Context, runID, filePath, parserName string) (*services.ImportResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ImportBookmarksTask{RunID: runID, FilePath: filePath, Parser: parserName})
	m.mu.Unlock()
	if m.done != nil {
		defer close(m.done)
	}
	return &services.ImportResult{RunID: runID, Imported: 3, Failed: []parsers.ParseFailure{}}, m.err
}

func TestImportBookmarksQueue_RunsImport(t *testing.T) {
	client := newTestClient(t)
	importer := &mockImporter{done: make(chan struct{})}
	client.Register(NewImportBookmarksQueue(importer))
	startClient(t, client)

	id, err := client.Enqueue(ImportBookmarksTask{RunID: "run-1", FilePath: "/tmp/bookmarks.json", Parser: parsers.DefaultParserName})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-importer.done:
	case <-time.After(5 * time.Second):
		t.Fatal("import task was not executed within timeout")
	}

	importer.mu.Lock()
	defer importer.mu.Unlock()
	require.Len(t, importer.calls, 1)
	assert.Equal(t, ImportBookmarksTask{RunID: "run-1", FilePath: "/tmp/bookmarks.json", Parser: parsers.DefaultParserName}, importer.calls[0])
}

func TestImportBookmarksProcessor(t *testing.T) {
	t.Run("propagates failure", func(t *testing.T) {
		importer := &mockImporter{err: errors.New("parser exploded")}
		err := ImportBookmarksProcessor(importer)(context.Background(), ImportBookmarksTask{RunID: "r", FilePath: "in.json"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parser exploded")
	})

	t.Run("nil importer", func(t *testing.T) {
		err := ImportBookmarksProcessor(nil)(context.Background(), ImportBookmarksTask{})
		assert.Error(t, err)
	})
}

func TestImportBookmarksTaskConfig(t *testing.T) {
	cfg := ImportBookmarksTask{}.Config()

	assert.Equal(t, ImportBookmarksQueue, cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestImportBookmarksProcessor_RemovesUploadedFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("after success", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

		err := ImportBookmarksProcessor(&mockImporter{})(context.Background(), ImportBookmarksTask{RunID: "r", FilePath: path, RemoveFile: true})
		require.NoError(t, err)
		assert.NoFileExists(t, path)
	})

	t.Run("after failure", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

		err := ImportBookmarksProcessor(&mockImporter{err: errors.New("boom")})(context.Background(), ImportBookmarksTask{RunID: "r", FilePath: path, RemoveFile: true})
		require.Error(t, err)
		assert.NoFileExists(t, path)
	})

	t.Run("kept without flag", func(t *testing.T) {
		path := filepath.Join(dir, "keep.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

		require.NoError(t, ImportBookmarksProcessor(&mockImporter{})(context.Background(), ImportBookmarksTask{RunID: "r", FilePath: path}))
		assert.FileExists(t, path)
	})
}

type mockCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (m *mockCleaner) DeleteOldNotifications(_ context.Context, retention time.Duration) (int64, error) {
	m.retention = retention
	return m.deleted, m.err
}

func TestCleanupNotificationsProcessor(t *testing.T) {
	cleaner := &mockCleaner{deleted: 4}

	require.NoError(t, CleanupNotificationsProcessor(cleaner)(context.Background(), CleanupNotificationsTask{RetentionDays: 7}))
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)

	require.NoError(t, CleanupNotificationsProcessor(cleaner)(context.Background(), CleanupNotificationsTask{}))
	assert.Equal(t, 30*24*time.Hour, cleaner.retention)

	cleaner.err = errors.New("locked")
	assert.Error(t, CleanupNotificationsProcessor(cleaner)(context.Background(), CleanupNotificationsTask{}))
	assert.Error(t, CleanupNotificationsProcessor(nil)(context.Background(), CleanupNotificationsTask{}))
}

func TestCleanupNotificationsTaskConfig(t *testing.T) {
	cfg := CleanupNotificationsTask{}.Config()

	assert.Equal(t, CleanupNotificationsQueue, cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Backoff)
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "pending", StatusName(backlite.TaskStatusPending))
	assert.Equal(t, "running", StatusName(backlite.TaskStatusRunning))
	assert.Equal(t, "success", StatusName(backlite.TaskStatusSuccess))
	assert.Equal(t, "failure", StatusName(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", StatusName(backlite.TaskStatusNotFound))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.Equal(t, 15*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, 30*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration)
	assert.Equal(t, 1, Config{}.workers())
}

func TestRegister_AppliesClientConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1
	cfg.TaskTimeout = 42 * time.Second
	cfg.MaxRetries = 4
	cfg.RetryDelay = 7 * time.Second
	cfg.RetentionDuration = 3 * time.Hour

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	imports := NewImportBookmarksQueue(&mockImporter{})
	cleanup := NewCleanupNotificationsQueue(&mockCleaner{})
	client.Register(imports, cleanup)

	importCfg := imports.Config()
	assert.Equal(t, 42*time.Second, importCfg.Timeout)
	assert.Equal(t, 1, importCfg.MaxAttempts, "imports are never retried")
	require.NotNil(t, importCfg.Retention)
	assert.Equal(t, 3*time.Hour, importCfg.Retention.Duration)

	cleanupCfg := cleanup.Config()
	assert.Equal(t, 5, cleanupCfg.MaxAttempts)
	assert.Equal(t, 7*time.Second, cleanupCfg.Backoff)
	assert.Equal(t, 2*time.Minute, cleanupCfg.Timeout)
	require.NotNil(t, cleanupCfg.Retention)
	assert.Equal(t, 3*time.Hour, cleanupCfg.Retention.Duration)
}

func TestConfigApply_ZeroValuesKeepQueueDefaults(t *testing.T) {
	qc := ImportBookmarksTask{}.Config()
	Config{}.apply(&qc)

	assert.Equal(t, 15*time.Minute, qc.Timeout)
	assert.Equal(t, 24*time.Hour, qc.Retention.Duration)
}
