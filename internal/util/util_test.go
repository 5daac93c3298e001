package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_KeepsInsertionOrder(t *testing.T) {
	var r Registry[int]
	r.Put("b", 1)
	r.Put("a", 2)
	r.Put("b", 3)

	assert.Equal(t, []string{"b", "a"}, r.Names())
	assert.Equal(t, []int{3, 2}, r.Values())
	assert.Equal(t, 2, r.Len())

	v, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_AddDoesNotReplace(t *testing.T) {
	var r Registry[string]
	assert.True(t, r.Add("x", "first"))
	assert.False(t, r.Add("x", "second"))

	v, _ := r.Get("x")
	assert.Equal(t, "first", v)
}

func TestRegistry_ConcurrentAdd(t *testing.T) {
	var (
		r   Registry[int]
		wg  sync.WaitGroup
		won = make(chan int, 16)
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if r.Add("same", i) {
				won <- i
			}
		}(i)
	}
	wg.Wait()
	close(won)

	assert.Len(t, won, 1)
	assert.Equal(t, 1, r.Len())
}

func TestTemplate_Quoted(t *testing.T) {
	tmpl := MustTemplate("q", "one of {{quoted .}}")
	out, err := Execute(tmpl, []string{"web_search", "code_writer"})
	require.NoError(t, err)
	assert.Equal(t, "one of 'web_search', 'code_writer'", out)

	out, err = Execute(tmpl, []string{})
	require.NoError(t, err)
	assert.Equal(t, "one of ", out)
}

func TestTemplate_MissingKeyFails(t *testing.T) {
	tmpl := MustTemplate("strict", "{{.Request}}")
	_, err := Execute(tmpl, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render strict")
}

func TestMustTemplate_PanicsOnSyntaxError(t *testing.T) {
	assert.Panics(t, func() { MustTemplate("bad", "{{.Unclosed") })
}
