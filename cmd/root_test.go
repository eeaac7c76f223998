package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairq/fairq/lib/consts"
)

func TestRawFormatter(t *testing.T) {
	t.Parallel()
	out, err := RawFormatter{}.Format(&logrus.Entry{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestSetupLoggers(t *testing.T) {
	t.Run("Verbose", func(t *testing.T) {
		c := &rootCommand{logger: logrus.New(), logOutput: "none", logFmt: "json", verbose: true}
		require.NoError(t, c.setupLoggers())
		assert.Equal(t, logrus.DebugLevel, c.logger.GetLevel())
		assert.Equal(t, io.Discard, c.logger.Out)
		assert.IsType(t, &logrus.JSONFormatter{}, c.logger.Formatter)
	})
	t.Run("UnsupportedOutput", func(t *testing.T) {
		c := &rootCommand{logger: logrus.New(), logOutput: "garbage"}
		require.Error(t, c.setupLoggers())
	})
}

func TestRootCommandFlags(t *testing.T) {
	c := newRootCommand(context.Background(), logrus.New())

	flags := c.cmd.PersistentFlags()
	for _, name := range []string{"verbose", "quiet", "no-color", "log-output", "log-format", "address", "config"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
	assert.Equal(t, "localhost:7465", flags.Lookup("address").DefValue)
}

func TestVersionCmd(t *testing.T) {
	old := stdout
	t.Cleanup(func() { stdout = old })
	buf := &bytes.Buffer{}
	stdout = buf

	cmd := getVersionCmd()
	cmd.Run(cmd, nil)
	assert.Contains(t, buf.String(), "fairq v"+consts.Version)
}
