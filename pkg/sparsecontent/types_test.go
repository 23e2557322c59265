package sparsecontent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/sparse-content/pkg/sparsecontent"
)

func TestAuthorizablePaths(t *testing.T) {
	assert.Equal(t, "/system/userManager/user/alice", sparsecontent.UserPath("alice"))
	assert.Equal(t, "/system/userManager/group/editors", sparsecontent.GroupPath("editors"))

	assert.True(t, sparsecontent.IsAuthorizablePath(sparsecontent.UserPath("alice")))
	assert.True(t, sparsecontent.IsAuthorizablePath(sparsecontent.GroupPath("editors")))
	assert.False(t, sparsecontent.IsAuthorizablePath("/content/item"))
}

func TestRequestPropertyPath(t *testing.T) {
	prop := sparsecontent.RequestProperty{Name: "title", ParentPath: "/content/item"}
	assert.Equal(t, "/content/item@title", prop.Path())
}

func TestNodePropertyAccessors(t *testing.T) {
	node := sparsecontent.NewNode("/content/item")

	assert.False(t, node.HasProperty("title"))
	_, err := node.GetProperty("title")
	assert.ErrorIs(t, err, sparsecontent.ErrPropertyNotFound)

	require.NoError(t, node.SetProperty("title", sparsecontent.ToStore("x")))
	require.NoError(t, node.SetProperty("author", sparsecontent.ToStore("y")))
	assert.Equal(t, []string{"author", "title"}, node.PropertyNames())

	require.NoError(t, node.RemoveProperty("title"))
	assert.False(t, node.HasProperty("title"))
	// removing an absent property is a no-op
	require.NoError(t, node.RemoveProperty("title"))
}

func TestNodeCloneIsolation(t *testing.T) {
	node := sparsecontent.NewNode("/content/item")
	require.NoError(t, node.SetProperty("title", sparsecontent.ToStore("x")))

	clone := node.Clone()
	require.NoError(t, clone.SetProperty("title", sparsecontent.ToStore("changed")))

	original, err := node.GetProperty("title")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, original.Values())
}
