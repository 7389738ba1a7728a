package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbumOwnerRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		owner   AlbumOwner
		creator *uint
		circle  *uint
	}{
		{"personal", PersonalOwner{UserID: 7}, uintPtr(7), nil},
		{"circle", CircleOwner{CircleID: 3}, nil, uintPtr(3)},
		{"shared", SharedOwner{UserID: 7, CircleID: 3}, uintPtr(7), uintPtr(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Album
			a.SetOwner(tt.owner)
			assert.Equal(t, tt.creator, a.CreatorID)
			assert.Equal(t, tt.circle, a.CircleID)

			got, err := a.Owner()
			require.NoError(t, err)
			assert.Equal(t, tt.owner, got)
		})
	}
}

func TestAlbumWithoutOwnerIsRejected(t *testing.T) {
	_, err := (&Album{Title: "orphan"}).Owner()
	assert.ErrorIs(t, err, ErrOrphanedAlbum)
}

func TestAlbumIsCreator(t *testing.T) {
	var a Album
	a.SetOwner(SharedOwner{UserID: 5, CircleID: 1})
	assert.True(t, a.IsCreator(5))
	assert.False(t, a.IsCreator(6))
	assert.False(t, a.IsCreator(0))

	a.SetOwner(CircleOwner{CircleID: 1})
	assert.False(t, a.IsCreator(5))
}
