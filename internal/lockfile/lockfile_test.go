package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_CreatesLockfile(t *testing.T) {
	dir := t.TempDir()
	lock, err := Acquire(dir)
	require.NoError(t, err)
	require.NotNil(t, lock)

	_, statErr := os.Stat(filepath.Join(dir, Name))
	assert.NoError(t, statErr)
	assert.True(t, Held(dir))
}

func TestAcquire_SecondCallFailsFast(t *testing.T) {
	dir := t.TempDir()
	lock, err := Acquire(dir)
	require.NoError(t, err)
	defer lock.Release()

	_, err = Acquire(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestAcquire_CreatesMissingWorkingDirectory(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "nested", "workdir")

	lock, err := Acquire(dir)
	require.NoError(t, err)
	defer lock.Release()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRelease_RemovesLockfileAndAllowsReacquire(t *testing.T) {
	dir := t.TempDir()
	lock, err := Acquire(dir)
	require.NoError(t, err)

	require.NoError(t, lock.Release())
	assert.False(t, Held(dir))

	second, err := Acquire(dir)
	require.NoError(t, err)
	assert.NoError(t, second.Release())
}

func TestRelease_IsSafeToCallTwice(t *testing.T) {
	dir := t.TempDir()
	lock, err := Acquire(dir)
	require.NoError(t, err)

	require.NoError(t, lock.Release())
	assert.NoError(t, lock.Release())
}

func TestRelease_NilLockIsNoOp(t *testing.T) {
	var lock *Lock
	assert.NoError(t, lock.Release())
}

func TestHeld_FalseWhenNoLockfile(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Held(dir))
}
