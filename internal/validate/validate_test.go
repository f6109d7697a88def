package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,notblank,max=32"`
	Role     string `json:"role" validate:"required,role"`
	Ignored  string `json:"-" validate:"omitempty"`
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(signup{Username: "alice", Role: "student"}))
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	err := Struct(signup{Username: "   ", Role: "admin"})
	require.Error(t, err)

	fields := Fields(err)
	assert.Equal(t, "username cannot be blank", fields["username"])
	assert.Equal(t, "role must be student or teacher", fields["role"])
}

func TestStructTranslatesBuiltinTags(t *testing.T) {
	err := Struct(signup{Role: "teacher"})
	require.Error(t, err)

	fields := Fields(err)
	require.Contains(t, fields, "username")
	assert.Equal(t, "username is a required field", fields["username"])
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(errors.New("boom")))
	assert.Nil(t, Fields(nil))
}
