package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResource struct {
	id    int64
	owner int64
}

func (r fakeResource) ResourceID() int64 { return r.id }
func (r fakeResource) OwnerID() int64    { return r.owner }

func TestAuthorize(t *testing.T) {
	alice := Identity{ID: 1, Email: "alice@example.com"}

	tests := []struct {
		name string
		res  Resource
		want Decision
	}{
		{"absent resource", nil, NotFound},
		{"foreign resource", fakeResource{id: 10, owner: 2}, Forbid},
		{"owned resource", fakeResource{id: 10, owner: 1}, Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, op := range []string{"access", "update", "delete"} {
				assert.Equal(t, tt.want, Authorize(tt.res, alice, op))
			}
		})
	}
}

func TestAuthorizeChecksAbsenceBeforeOwnership(t *testing.T) {
	// a nil resource never reaches the owner comparison, so enumeration of
	// missing ids cannot turn into Forbid responses
	bob := Identity{ID: 2}
	assert.Equal(t, NotFound, Authorize(nil, bob, "access"))
}
