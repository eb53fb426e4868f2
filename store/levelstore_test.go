package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oasislabs/patriciatrie/store"
)

func TestLevelStoreInsertGet(t *testing.T) {
	assert := assert.New(t)
	s, err := store.NewMemLevelStore()
	assert.NoError(err)
	defer s.Close()

	h, err := s.Insert([]byte("hello"), store.Never)
	assert.NoError(err)

	got, err := s.Get(h)
	assert.NoError(err)
	assert.Equal([]byte("hello"), got)
}

func TestLevelStoreGetMissing(t *testing.T) {
	assert := assert.New(t)
	s, err := store.NewMemLevelStore()
	assert.NoError(err)
	defer s.Close()

	_, err = s.Get(store.Hash{})
	assert.Equal(store.ErrNotFound, err)
}

func TestLevelStorePrune(t *testing.T) {
	assert := assert.New(t)
	s, err := store.NewMemLevelStore()
	assert.NoError(err)
	defer s.Close()

	expired, err := s.Insert([]byte("expired"), 100)
	assert.NoError(err)
	kept, err := s.Insert([]byte("kept"), store.Never)
	assert.NoError(err)

	removed, err := s.Prune(200)
	assert.NoError(err)
	assert.Equal(1, removed)

	_, err = s.Get(expired)
	assert.Equal(store.ErrNotFound, err)

	_, err = s.Get(kept)
	assert.NoError(err)
}
