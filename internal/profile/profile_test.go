package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/envision/internal/session"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/work/dev.profile.sh", ResolvePath("dev.profile.sh", "/work"))
	assert.Equal(t, "/work/envs/dev.envision", ResolvePath("envs/dev.envision", "/work"))
	assert.Equal(t, "/abs/dev.envision", ResolvePath("/abs/dev.envision", "/work"))
}

func TestValidateExtension(t *testing.T) {
	assert.NoError(t, ValidateExtension("/x/dev.profile.sh"))
	assert.NoError(t, ValidateExtension("prod.envision"))
	assert.Error(t, ValidateExtension("/x/dev.sh"))
	assert.Error(t, ValidateExtension("/x/.envision"))
	assert.Error(t, ValidateExtension("/x/dev.envision.bak"))
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "dev.profile.sh")
	require.NoError(t, os.WriteFile(good, []byte("export A=1\n"), 0o644))
	bad := filepath.Join(dir, "dev.sh")
	require.NoError(t, os.WriteFile(bad, []byte("export A=1\n"), 0o644))

	assert.NoError(t, Check(good))
	assert.ErrorContains(t, Check(bad), "invalid profile extension")
	assert.ErrorContains(t, Check(filepath.Join(dir, "missing.envision")), "not found")

	sub := filepath.Join(dir, "dir.envision")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.ErrorContains(t, Check(sub), "directory")
}

func TestName(t *testing.T) {
	assert.Equal(t, "dev", Name("/x/dev.profile.sh", ""))
	assert.Equal(t, "prod", Name("prod.envision", ""))
	assert.Equal(t, "active", Name("/x/dev.profile.sh", "active"))
}

func TestChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.envision")
	require.NoError(t, os.WriteFile(path, []byte("export A=1\n"), 0o644))

	sum, err := Checksum(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(session.Fingerprint("export A=1\n"), 10), sum)

	_, err = Checksum(filepath.Join(t.TempDir(), "missing.envision"))
	assert.Error(t, err)
}
