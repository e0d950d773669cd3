package schedule

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexAndAttributesDeterministic(t *testing.T) {
	//** Arrange
	scenarios := [][3]int{
		{1, 5, 12},
		{3, 5, 12},
		{20, 5, 10},
		{7, 3, 1},
	}

	for _, scenario := range scenarios {
		teachers, days, slots := scenario[0], scenario[1], scenario[2]

		//** Act
		indexer := newBusyIndexer(teachers, days, slots)

		indices := make(map[int]bool, indexer.Size())
		for teacher := range teachers {
			for day := 1; day <= days; day++ {
				for slot := range slots {
					index := indexer.Index(teacher, day, slot)

					//** Assert
					assert.GreaterOrEqual(t, index, 0)
					assert.Less(t, index, indexer.Size())
					assert.False(t, indices[index], "index %v produced twice", index)
					indices[index] = true

					gotTeacher, gotDay, gotSlot := indexer.Attributes(index)
					assert.Equal(t, [3]int{teacher, day, slot}, [3]int{gotTeacher, gotDay, gotSlot})
				}
			}
		}
		assert.Len(t, indices, indexer.Size())
	}
}

func TestIndexAndAttributesNonDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 10 {
		//** Arrange
		teachers, days, slots := rng.IntN(20)+1, rng.IntN(7)+1, rng.IntN(20)+1
		indexer := newBusyIndexer(teachers, days, slots)

		for range 100 {
			//** Act
			index := rng.IntN(indexer.Size())
			teacher, day, slot := indexer.Attributes(index)

			//** Assert
			assert.Equal(t, index, indexer.Index(teacher, day, slot))
		}
	}
}
