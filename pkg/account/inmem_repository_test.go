package account

import "testing"

func TestInMemoryRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) Repository {
		return NewInMemoryRepository()
	}, contractOptions{concurrentWrites: true})
}
