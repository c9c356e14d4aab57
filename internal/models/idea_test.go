package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdeaTableNextID(t *testing.T) {
	assert.Equal(t, int64(1), IdeaTable{}.NextID())
	assert.Equal(t, int64(4), IdeaTable{Ideas: []Idea{{ID: 1}, {ID: 3}}}.NextID())
	assert.Equal(t, int64(4), IdeaTable{Ideas: []Idea{{ID: 1}}, LastID: 3}.NextID())
}

func TestIdeaTableSortNewestFirst(t *testing.T) {
	table := IdeaTable{Ideas: []Idea{{ID: 2}, {ID: 5}, {ID: 1}}}
	table.SortNewestFirst()
	assert.Equal(t, []int64{5, 2, 1}, []int64{table.Ideas[0].ID, table.Ideas[1].ID, table.Ideas[2].ID})
	assert.Equal(t, 1, table.Index(2))
	assert.Equal(t, -1, table.Index(9))
}

func TestViewerFromClaims(t *testing.T) {
	assert.False(t, ViewerFromClaims(nil).Authenticated)
	v := ViewerFromClaims(&JWTClaims{Username: "admin", Role: RoleAdmin})
	assert.True(t, v.IsAdmin())
	assert.Equal(t, "admin", v.Identity)
}

func TestMessageCounterpart(t *testing.T) {
	m := Message{Sender: "ana", Receiver: "bob"}
	assert.Equal(t, "bob", m.Counterpart("ana"))
	assert.Equal(t, "ana", m.Counterpart("bob"))
	assert.True(t, m.Involves("bob"))
	assert.False(t, m.Involves("cid"))
}
