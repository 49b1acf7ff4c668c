package c2paconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/encypherai/c2patext/c2paconfig"
)

func TestDefaultAcceptsBothContexts(t *testing.T) {
	cfg := c2paconfig.Default()
	assert.True(t, cfg.AcceptsContext(cfg.ContextURL))
	assert.True(t, cfg.AcceptsContext("https://c2pa.org/specifications/specifications/2.2/specs/C2PA_Specification.html"))
	assert.True(t, cfg.HardBindingDefault)
	assert.Equal(t, 4, cfg.DistributionFanout)
}

func TestAcceptsContextRejectsUnknown(t *testing.T) {
	cfg := c2paconfig.Default()
	assert.False(t, cfg.AcceptsContext("https://example.com/not-c2pa"))
}

func TestAcceptsContextEmptyAllowlistAcceptsAll(t *testing.T) {
	cfg := c2paconfig.Config{}
	assert.True(t, cfg.AcceptsContext("anything"))
}

func TestStreamingForcesHardBindingOff(t *testing.T) {
	cfg := c2paconfig.Default().Streaming()
	assert.False(t, cfg.HardBindingDefault)
}
