package main

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaceFile 先写临时文件再 rename 覆盖，模拟编辑器的原子保存
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".swp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatchFileSurvivesAtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o644))

	var calls atomic.Int32
	stop, err := watchFile(path, 20*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	defer stop()

	replaceFile(t, path, "server:\n  port: 8081\n")
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	replaceFile(t, path, "server:\n  port: 8082\n")
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	// 同目录其他文件不触发
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 2, calls.Load())
}

func TestWatchFileMissingDir(t *testing.T) {
	_, err := watchFile(filepath.Join(t.TempDir(), "missing", "config.yaml"), time.Millisecond, func() {})
	assert.Error(t, err)
}
