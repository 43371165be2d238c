package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	created := 0
	reg := NewRegistry(func(name string) *Pane {
		created++
		return NewPane(name, &fakeResolver{})
	})

	_, ok := reg.Get(DefaultPane)
	assert.False(t, ok)

	p := reg.Open(DefaultPane)
	assert.Equal(t, DefaultPane, p.Name())
	assert.Same(t, p, reg.Open(DefaultPane))
	assert.Equal(t, 1, created)

	reg.Open("libpng")
	assert.Equal(t, []string{"default", "libpng"}, reg.Names())

	got, ok := reg.Get("libpng")
	assert.True(t, ok)
	assert.Equal(t, "libpng", got.Name())

	reg.Close("libpng")
	assert.Equal(t, []string{"default"}, reg.Names())
}
