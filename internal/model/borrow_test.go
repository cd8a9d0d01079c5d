package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrow_Open(t *testing.T) {
	b := Borrow{}
	assert.True(t, b.Open())

	now := time.Now().UTC()
	b.ReturnDate = &now
	assert.False(t, b.Open())
}

// A borrow serialized without its relation loaded must not embed a
// zero-value book object.
func TestBorrow_JSONWithoutBook(t *testing.T) {
	payload, err := json.Marshal(Borrow{ID: 1, UserID: 2, BookID: 3})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.NotContains(t, out, "book")

	payload, err = json.Marshal(Borrow{ID: 1, BookID: 3, Book: &Book{ID: 3, Title: "Dune"}})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.Contains(t, out, "book")
}
