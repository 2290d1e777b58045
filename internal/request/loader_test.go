package request

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubgen/internal/analyze"
	"stubgen/internal/gen"
	"stubgen/internal/plan"
)

const batchYAML = `
requests:
  - file: shop/order.go
    op: delegate
    type: Order
    keys: [Close()error, Flush()error, Close()error]
    anchor: String
    apply: true
    save: true
  - file: shop/handler.go
    op: implement
    offset: 412
    iface: io.Closer
    body: zero
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(batchYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Requests, 2)

	first := f.Requests[0]
	assert.Equal(t, "shop/order.go", first.File)
	assert.Equal(t, OpDelegate, first.Op)
	assert.Equal(t, "Order", first.Type)
	assert.Nil(t, first.Offset)
	assert.Equal(t, StringOrArray{"Close()error", "Flush()error"}, first.Keys)
	assert.True(t, first.Apply)
	assert.True(t, first.Save)

	second := f.Requests[1]
	assert.Equal(t, OpImplement, second.Op)
	require.NotNil(t, second.Offset)
	assert.Equal(t, 412, *second.Offset)
	assert.Equal(t, StringOrArray{"io.Closer"}, second.Iface)
	assert.True(t, second.Keys.IsEmpty())
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("requests: {file: ["))
	require.Error(t, err)
}

func TestParse_RejectsMappingForKeys(t *testing.T) {
	_, err := Parse([]byte("requests:\n  - keys: {a: b}\n"))
	require.Error(t, err)
}

func TestWriteAndLoadFile(t *testing.T) {
	f, err := Parse([]byte(batchYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEntry_Request(t *testing.T) {
	f, err := Parse([]byte(batchYAML))
	require.NoError(t, err)

	settings := gen.DefaultSettings()

	req := f.Requests[0].Request(settings)
	assert.Equal(t, "shop/order.go", req.Path)
	assert.Equal(t, plan.NamedTarget("Order"), req.Target)
	assert.Equal(t, analyze.Keys("Close()error", "Flush()error"), req.Keys)
	assert.Equal(t, "String", req.Anchor)
	assert.Equal(t, gen.BodyPanic, req.Settings.Body)

	req = f.Requests[1].Request(settings)
	assert.Equal(t, plan.InstantiationTarget(412, "io.Closer"), req.Target)
	assert.Equal(t, gen.BodyZero, req.Settings.Body)
	assert.Empty(t, req.Keys)
	assert.Equal(t, gen.BodyPanic, settings.Body, "caller settings are not modified")
}
