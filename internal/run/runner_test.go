package run

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute(t *testing.T) {
	argv := []string{"python", "setup.py", "install", "--root={root}", "-O0"}
	got := Substitute(argv, map[string]string{"root": "/tmp/stage"})
	assert.Equal(t, []string{"python", "setup.py", "install", "--root=/tmp/stage", "-O0"}, got)

	// Original slice untouched.
	assert.Equal(t, "--root={root}", argv[3])
}

func TestSubstituteEmpty(t *testing.T) {
	assert.Nil(t, Substitute(nil, map[string]string{"root": "x"}))
}

func TestRecorderFailOn(t *testing.T) {
	rec := NewRecorder()
	boom := errors.New("exit status 2")
	rec.FailOn["msgfmt"] = boom

	require.NoError(t, rec.Run(context.Background(), "", "python", "setup.py", "build"))
	err := rec.Run(context.Background(), "", "msgfmt", "-o", "de.mo", "de.po")
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 1, rec.CountCommand("python"))
	assert.Equal(t, 1, rec.CountCommand("msgfmt"))
	assert.Len(t, rec.Calls(), 2)
}

func TestExecRunnerEmptyCommand(t *testing.T) {
	r := NewExecRunner()
	require.Error(t, r.Run(context.Background(), ""))
}
