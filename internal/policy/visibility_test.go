package policy

import (
	"testing"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestProfileVisible(t *testing.T) {
	public := &models.User{ID: 1}
	explicitPublic := &models.User{ID: 1, IsProfilePrivate: boolPtr(false)}
	private := &models.User{ID: 1, IsProfilePrivate: boolPtr(true)}

	assert.True(t, ProfileVisible(0, public, false, false), "unset privacy is public")
	assert.True(t, ProfileVisible(2, explicitPublic, false, false))
	assert.True(t, ProfileVisible(1, private, false, false), "owner sees own profile")
	assert.False(t, ProfileVisible(0, private, false, false))
	assert.False(t, ProfileVisible(2, private, true, false), "followers are refused by default")
	assert.True(t, ProfileVisible(2, private, true, true))
	assert.False(t, ProfileVisible(2, private, false, true))
}

func TestPostVisible(t *testing.T) {
	open := &models.Circle{ID: 1}
	closed := &models.Circle{ID: 2, IsPrivate: true}

	assert.True(t, PostVisible(open, false))
	assert.True(t, PostVisible(closed, true))
	assert.False(t, PostVisible(closed, false))
}

func TestAlbumVisible(t *testing.T) {
	open := &models.Circle{ID: 1}
	closed := &models.Circle{ID: 2, IsPrivate: true}

	personal := &models.Album{IsPrivate: true}
	personal.SetOwner(models.PersonalOwner{UserID: 10})

	privateInOpen := &models.Album{IsPrivate: true}
	privateInOpen.SetOwner(models.SharedOwner{UserID: 10, CircleID: 1})

	publicInClosed := &models.Album{}
	publicInClosed.SetOwner(models.CircleOwner{CircleID: 2})

	tests := []struct {
		name   string
		viewer uint
		album  *models.Album
		circle *models.Circle
		member bool
		want   bool
	}{
		{"private personal album, creator", 10, personal, nil, false, true},
		{"private personal album, stranger", 11, personal, nil, false, false},
		{"private album in public circle, non-member", 11, privateInOpen, open, false, false},
		{"private album in public circle, member", 11, privateInOpen, open, true, true},
		{"private album in public circle, anonymous", 0, privateInOpen, open, false, false},
		{"public album in private circle, non-member", 11, publicInClosed, closed, false, false},
		{"public album in private circle, member", 11, publicInClosed, closed, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlbumVisible(tt.viewer, tt.album, tt.circle, tt.member))
		})
	}
}
