package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAllocatorStartsAtOne(t *testing.T) {
	ids := NewIDAllocator()
	assert.Equal(t, ID(1), ids.Peek())
	assert.Equal(t, ID(1), ids.Next())
	assert.Equal(t, ID(2), ids.Next())
	assert.Equal(t, "3", ids.Peek().String())
}

func TestIDAllocatorReset(t *testing.T) {
	ids := NewIDAllocator()
	ids.Next()

	ids.Reset(100)
	assert.Equal(t, ID(100), ids.Peek())
	assert.Equal(t, ID(100), ids.Next())
	assert.Equal(t, ID(101), ids.Next())

	ids.Reset(NoID)
	assert.Equal(t, ID(1), ids.Next())

	var zero IDAllocator
	assert.Equal(t, ID(1), zero.Peek())
	assert.Equal(t, ID(1), zero.Next(), "zero value never hands out NoID")
}

func TestIDsNotReusedAfterRelease(t *testing.T) {
	dev, ids := newTestDevice()

	first, err := NewCube(dev, ids)
	require.NoError(t, err)
	firstID := first.ID()
	first.Release()
	assert.Equal(t, firstID, first.ID(), "release keeps the identity")

	second, err := NewCube(dev, ids)
	require.NoError(t, err)
	assert.Greater(t, second.ID(), firstID)

	clone, err := second.Clone(ids)
	require.NoError(t, err)
	assert.Greater(t, clone.ID(), second.ID())
}

func TestTransferSourceHoldsNoID(t *testing.T) {
	dev, ids := newTestDevice()
	src, err := NewCube(dev, ids)
	require.NoError(t, err)
	id := src.ID()

	dst := src.Transfer()
	assert.Equal(t, NoID, src.ID())
	assert.Equal(t, id, dst.ID())

	next, err := NewCube(dev, ids)
	require.NoError(t, err)
	assert.Greater(t, next.ID(), id, "a transfer does not hand the identity back")
}

func TestIDAllocatorSeededGeometry(t *testing.T) {
	dev, ids := newTestDevice()
	ids.Reset(100)

	g, err := NewTriangle(dev, ids, TriangleUpRight)
	require.NoError(t, err)
	assert.Equal(t, ID(100), g.ID())
}
