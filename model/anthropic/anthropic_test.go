package anthropic

import (
	"testing"

	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_SkipsSystemAndEmpty(t *testing.T) {
	msgs := buildMessages([]core.Content{
		core.NewTextContent("system", "ignored here"),
		core.NewTextContent("user", "Which beach?"),
		core.NewTextContent("assistant", ""),
		core.NewTextContent("assistant", "Bondi."),
	})
	require.Len(t, msgs, 2)
	assert.EqualValues(t, "user", msgs[0].Role)
	assert.EqualValues(t, "assistant", msgs[1].Role)
}

func TestSystemBlocks(t *testing.T) {
	blocks := systemBlocks(model.Request{
		Instructions: "You are a beach expert.",
		Contents:     []core.Content{core.NewTextContent("system", "Be brief.")},
	})
	require.Len(t, blocks, 2)
	assert.Equal(t, "You are a beach expert.", blocks[0].Text)
	assert.Equal(t, "Be brief.", blocks[1].Text)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) { o.Model = "claude-test"; o.APIKey = "k" })
	assert.Equal(t, model.Info{Name: "claude-test", Provider: "anthropic"}, m.Info())
}
