package identifier

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	g := NewGenerator()

	assert.Equal(t, Identifier("Actor0"), g.Generate("Actor"))
	assert.Equal(t, Identifier("Actor1"), g.Generate("Actor"))
	assert.Equal(t, Identifier("Camera2"), g.Generate("Camera"))
	assert.Equal(t, uint64(3), g.Issued())
}

func TestGenerate_DigitSuffixedTag(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 12; i++ {
		g.Generate("Cell")
	}

	// "Cell1" + 12 must not read as "Cell" + 112
	assert.Equal(t, Identifier("Cell1-12"), g.Generate("Cell1"))
}

func TestGenerate_Unique(t *testing.T) {
	g := NewGenerator()
	const n = 10000

	seen := make(map[Identifier]struct{}, n)
	for i := 0; i < n; i++ {
		id := g.Generate("Mesh")
		_, dup := seen[id]
		require.False(t, dup, "duplicate identifier %s", id)
		seen[id] = struct{}{}
	}
}

func TestGenerate_UniqueAcrossTags(t *testing.T) {
	g := NewGenerator()
	tags := []string{"A", "A1", "A11", "B"}

	seen := make(map[Identifier]struct{})
	for i := 0; i < 200; i++ {
		id := g.Generate(tags[i%len(tags)])
		_, dup := seen[id]
		require.False(t, dup, "duplicate identifier %s", id)
		seen[id] = struct{}{}
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	g := NewGenerator()
	const workers, perWorker = 8, 500

	var mu sync.Mutex
	seen := make(map[Identifier]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]Identifier, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, g.Generate("Light"))
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, uint64(workers*perWorker), g.Issued())
}

func TestGenerators_AreIndependent(t *testing.T) {
	a, b := NewGenerator(), NewGenerator()
	a.Generate("X")
	a.Generate("X")

	assert.Equal(t, Identifier("X0"), b.Generate("X"))
}

func TestIdentifier_IsZero(t *testing.T) {
	var id Identifier
	assert.True(t, id.IsZero())
	assert.False(t, Generate("Tag").IsZero())
}
