package cmd

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/fairq/fairq/api"
	"github.com/fairq/fairq/lib/testutils"
	"github.com/fairq/fairq/pool"
	"github.com/fairq/fairq/types"
)

func TestLoadCmd(t *testing.T) {
	oldAddress, oldQuiet, oldStdout := address, quiet, stdout
	t.Cleanup(func() { address, quiet, stdout = oldAddress, oldQuiet, oldStdout })

	cs, err := api.NewControlSurface(testutils.NewLogger(t), pool.Config{
		Capacity: null.IntFrom(3),
		Timeout:  types.NullDurationFrom(time.Second),
	}, api.SessionOptions{})
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewHandler(cs))
	t.Cleanup(srv.Close)
	t.Cleanup(http.DefaultClient.CloseIdleConnections)

	address = strings.TrimPrefix(srv.URL, "http://")
	quiet = true
	buf := &bytes.Buffer{}
	stdout = buf

	cmd := getLoadCmd(context.Background(), testutils.NewLogger(t))
	require.NoError(t, cmd.Flags().Set("workers", "2"))
	require.NoError(t, cmd.Flags().Set("requests", "6"))
	require.NoError(t, cmd.Flags().Set("hold", "1ms"))

	require.NoError(t, cmd.RunE(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "requests ....: 6 in")
	assert.Contains(t, out, "min=")
	assert.Equal(t, int64(6), api.NewStatus(cs).WorkDone)
}

func TestLoadCmdServerDown(t *testing.T) {
	oldAddress := address
	t.Cleanup(func() { address = oldAddress })

	// a dead port: nothing ever listens on it during the test
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address = ln.Addr().String()
	require.NoError(t, ln.Close())

	cmd := getLoadCmd(context.Background(), testutils.NewLogger(t))
	err = cmd.RunE(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not reach the server")
}
